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

package malloc

import (
	"unsafe"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// Allocation is a block reserved by BuddyAllocator.Alloc.
// It must be passed back to Free exactly once and not used afterwards.
type Allocation struct {
	buf   []byte
	owner *BuddyAllocator

	// index and depth address the reserved leaf in the free tree.
	index uint
	depth int

	offset    int
	blockSize int
}

// Bytes returns the allocated memory. Its length is the requested size and
// its capacity ends at the end of the reserved block, so appending beyond the
// block reallocates instead of writing into a buddy.
func (a Allocation) Bytes() []byte {
	return a.buf
}

// Len returns the requested size.
func (a Allocation) Len() int {
	return len(a.buf)
}

// BlockSize returns the size of the reserved block, a power of two >= Len.
func (a Allocation) BlockSize() int {
	return a.blockSize
}

// Offset returns the block's byte offset in the arena.
func (a Allocation) Offset() int {
	return a.offset
}

// Pointer returns the address of the first byte, for handing the block to
// code that cannot take a slice. Prefer Bytes.
func (a Allocation) Pointer() unsafe.Pointer {
	if len(a.buf) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(a.buf))
}

// Clone copies the allocated bytes out of the arena.
func (a Allocation) Clone() []byte {
	b := dirtmake.Bytes(len(a.buf), len(a.buf))
	copy(b, a.buf)
	return b
}
