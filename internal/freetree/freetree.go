/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package freetree implements the binary free/used tree behind the buddy allocator.
//
// Leaves carry a State. Branches are created lazily by splitting a Free leaf
// and are never merged back, so once a region is subdivided it stays so until Reset.
// A reserved leaf is addressed by its path index and its depth: bit i of the
// index (counting from the least significant bit) is the left(0)/right(1)
// choice made at level i.
package freetree

import "fmt"

// MaxDepthLimit is the deepest tree supported; path indexes must fit a uint.
const MaxDepthLimit = 62

// State is the free/used marker held by a leaf.
type State uint8

const (
	Free State = iota
	Used
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Used:
		return "used"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// node is a leaf when kids is nil, otherwise a branch owning both children.
// state is only meaningful for leaves.
type node struct {
	state State
	kids  *[2]node
}

func (n *node) isLeaf() bool { return n.kids == nil }

// split turns a Free leaf into a branch with two Free leaves.
func (n *node) split() {
	n.kids = &[2]node{}
}

func (n *node) findAndReserve(depth int) (uint, bool) {
	if n.isLeaf() {
		if n.state == Used {
			return 0, false
		}
		if depth == 0 {
			n.state = Used
			return 0, true
		}
		n.split()
		// the new left child is free, it always succeeds
		idx, _ := n.kids[0].findAndReserve(depth - 1)
		return idx << 1, true
	}
	if depth == 0 {
		// subdivided past the requested granularity
		return 0, false
	}
	if idx, ok := n.kids[0].findAndReserve(depth - 1); ok {
		return idx << 1, true
	}
	if idx, ok := n.kids[1].findAndReserve(depth - 1); ok {
		return idx<<1 | 1, true
	}
	return 0, false
}

func (n *node) walk(index uint, level int, fn func(index uint, depth int, s State)) {
	if n.isLeaf() {
		fn(index, level, n.state)
		return
	}
	n.kids[0].walk(index, level+1, fn)
	n.kids[1].walk(index|1<<uint(level), level+1, fn)
}

// Tree is a lazily split binary tree of free/used leaves.
// It is not safe for concurrent use.
type Tree struct {
	root     node
	maxDepth int
}

// New returns a tree consisting of a single Free leaf which may be split
// up to maxDepth levels deep.
func New(maxDepth int) *Tree {
	if maxDepth < 0 || maxDepth > MaxDepthLimit {
		panic(fmt.Sprintf("freetree: max depth %d out of range [0, %d]", maxDepth, MaxDepthLimit))
	}
	return &Tree{maxDepth: maxDepth}
}

// MaxDepth returns the deepest level a leaf may sit at.
func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

// FindAndReserve marks the leftmost free slot exactly depth levels below the
// root as Used and returns its path index.
// It returns false if every slot at that depth is taken or lies inside a used block.
func (t *Tree) FindAndReserve(depth int) (uint, bool) {
	t.checkDepth(depth)
	return t.root.findAndReserve(depth)
}

// Release marks the leaf reserved at (index, depth) as Free.
// Branches are never merged back into leaves.
//
// Release panics if the path does not end in a used leaf at exactly depth,
// which means the handle is corrupted or was already released.
func (t *Tree) Release(index uint, depth int) {
	t.checkDepth(depth)
	n := t.descend(index, depth)
	if n == nil || !n.isLeaf() {
		panic(fmt.Sprintf("freetree: index %#x at depth %d does not address a leaf", index, depth))
	}
	if n.state != Used {
		panic(fmt.Sprintf("freetree: double free of index %#x at depth %d", index, depth))
	}
	n.state = Free
}

// Get returns the state of the leaf at (index, depth).
// It returns false if the path does not end in a leaf at exactly depth.
func (t *Tree) Get(index uint, depth int) (State, bool) {
	if depth < 0 || depth > t.maxDepth {
		return Free, false
	}
	n := t.descend(index, depth)
	if n == nil || !n.isLeaf() {
		return Free, false
	}
	return n.state, true
}

// Walk calls fn for every leaf from left to right.
func (t *Tree) Walk(fn func(index uint, depth int, s State)) {
	t.root.walk(0, 0, fn)
}

// Reset drops every split and reservation.
func (t *Tree) Reset() {
	t.root = node{}
}

// descend follows index for depth levels and returns the node reached,
// or nil if a leaf is hit first.
func (t *Tree) descend(index uint, depth int) *node {
	n := &t.root
	for ; depth > 0; depth-- {
		if n.isLeaf() {
			return nil
		}
		n = &n.kids[index&1]
		index >>= 1
	}
	return n
}

func (t *Tree) checkDepth(depth int) {
	if depth < 0 || depth > t.maxDepth {
		panic(fmt.Sprintf("freetree: depth %d out of range [0, %d]", depth, t.maxDepth))
	}
}
