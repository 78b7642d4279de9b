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

// Package malloc implements a fixed-capacity buddy allocator.
//
// The arena is carved into power-of-two blocks tracked by a lazily split
// binary tree. Allocation always takes the leftmost free block of the
// required size, so low offsets fill first. Freed blocks become reusable
// at their own size, but a block that has been split is never merged back.
//
// A BuddyAllocator is not safe for concurrent use.
package malloc

import (
	"fmt"
	"math/bits"

	"github.com/cloudwego/buddy/arena"
	"github.com/cloudwego/buddy/internal/freetree"
)

// BuddyAllocator hands out blocks of a single fixed arena.
type BuddyAllocator struct {
	// arena is the memory being managed, exactly Capacity() bytes.
	arena []byte

	// tree tracks which blocks are split, free or used.
	tree *freetree.Tree

	minBlockSize  int
	minBlockShift int
	// maxDepth is log2(capacity / minBlockSize), the depth of a minimum block.
	maxDepth int
	capacity int

	stats ArenaStats
}

// ArenaStats describes the current usage of a BuddyAllocator.
type ArenaStats struct {
	TotalSize     int // arena bytes
	AllocatedSize int // bytes of reserved blocks
	RequestedSize int // bytes asked for by callers
	Allocations   int // outstanding allocations
}

// NewBuddyAllocator creates a buddy allocator using DefaultConfig and a zero
// filled heap arena.
func NewBuddyAllocator() *BuddyAllocator {
	a, err := NewBuddyAllocatorWithConfig(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return a
}

// NewBuddyAllocatorWithConfig creates a buddy allocator with a zero filled
// heap arena of cfg.Capacity() bytes.
func NewBuddyAllocatorWithConfig(cfg Config) (*BuddyAllocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newBuddyAllocator(arena.New(cfg.Capacity()), cfg), nil
}

// NewBuddyAllocatorWithArena creates a buddy allocator managing the first
// cfg.Capacity() bytes of buf, for example memory from arena.Map.
// The caller keeps ownership of buf and must not touch the managed part
// except through allocations.
func NewBuddyAllocatorWithArena(buf []byte, cfg Config) (*BuddyAllocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	capacity := cfg.Capacity()
	if len(buf) < capacity {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrArenaTooSmall, capacity, len(buf))
	}
	return newBuddyAllocator(buf[:capacity:capacity], cfg), nil
}

func newBuddyAllocator(buf []byte, cfg Config) *BuddyAllocator {
	maxDepth := bits.TrailingZeros(uint(cfg.BlockLevels))
	a := &BuddyAllocator{
		arena:         buf,
		tree:          freetree.New(maxDepth),
		minBlockSize:  cfg.MinBlockSize(),
		minBlockShift: cfg.MinBlockShift,
		maxDepth:      maxDepth,
		capacity:      len(buf),
	}
	a.stats.TotalSize = a.capacity
	return a
}

// Alloc reserves the leftmost free block that fits size bytes.
// It returns false if size is not in [1, Capacity()] or no such block is free.
func (a *BuddyAllocator) Alloc(size int) (Allocation, bool) {
	if size <= 0 || size > a.capacity {
		return Allocation{}, false
	}
	level := a.LevelForSize(size)
	depth := a.maxDepth - level
	index, ok := a.tree.FindAndReserve(depth)
	if !ok {
		return Allocation{}, false
	}
	offset := a.OffsetForIndex(index, depth)
	blockSize := a.minBlockSize << uint(level)

	a.stats.AllocatedSize += blockSize
	a.stats.RequestedSize += size
	a.stats.Allocations++
	return Allocation{
		buf:       a.arena[offset : offset+size : offset+blockSize],
		owner:     a,
		index:     index,
		depth:     depth,
		offset:    offset,
		blockSize: blockSize,
	}, true
}

// Free returns an allocation to the allocator.
// The block becomes reusable at its own size only; it is not merged with a
// free buddy.
//
// Free panics if the allocation was not returned by this allocator or was
// already freed.
func (a *BuddyAllocator) Free(al Allocation) {
	if al.owner != a {
		panic("buddy: allocation not owned by this allocator")
	}
	a.tree.Release(al.index, al.depth)
	a.stats.AllocatedSize -= al.blockSize
	a.stats.RequestedSize -= len(al.buf)
	a.stats.Allocations--
}

// LevelForSize returns the size class serving size bytes: the number of
// times a minimum block must be doubled to hold it. Any remainder rounds
// up to one more minimum block.
func (a *BuddyAllocator) LevelForSize(size int) int {
	if size <= a.minBlockSize {
		return 0
	}
	blocks := size >> uint(a.minBlockShift)
	if size&(a.minBlockSize-1) != 0 {
		blocks++
	}
	return bits.Len(uint(blocks - 1))
}

// OffsetForIndex maps a path index at the given depth to a byte offset.
// Bit i of index selects the upper half at level i, which adds
// Capacity()>>(i+1) bytes, so buddies are always adjacent.
func (a *BuddyAllocator) OffsetForIndex(index uint, depth int) int {
	offset := 0
	for i := 0; i < depth; i++ {
		if (index>>uint(i))&1 != 0 {
			offset += a.capacity >> uint(i+1)
		}
	}
	return offset
}

// Capacity returns the arena size in bytes.
func (a *BuddyAllocator) Capacity() int {
	return a.capacity
}

// MinBlockSize returns the smallest block size in bytes.
func (a *BuddyAllocator) MinBlockSize() int {
	return a.minBlockSize
}

// MaxDepth returns the tree depth of a minimum-size block.
func (a *BuddyAllocator) MaxDepth() int {
	return a.maxDepth
}

// Available returns the total bytes held by free blocks.
// Free blocks are never merged, so a single request may fail even when
// Available is larger than it.
func (a *BuddyAllocator) Available() int {
	total := 0
	a.tree.Walk(func(_ uint, depth int, s freetree.State) {
		if s == freetree.Free {
			total += a.capacity >> uint(depth)
		}
	})
	return total
}

// Stats returns the current usage counters.
func (a *BuddyAllocator) Stats() ArenaStats {
	return a.stats
}

// Reset drops every allocation and returns the allocator to its initial state.
// Outstanding allocations must not be used or freed afterwards.
func (a *BuddyAllocator) Reset() {
	a.tree.Reset()
	a.stats = ArenaStats{TotalSize: a.capacity}
}
