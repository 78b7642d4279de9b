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

import "fmt"

func Example() {
	a, _ := NewBuddyAllocatorWithConfig(Config{MinBlockShift: 12, BlockLevels: 8}) // 8 x 4KB

	b1, _ := a.Alloc(1024) // one 4KB block
	b2, _ := a.Alloc(8193) // rounds up to 16KB

	fmt.Printf("b1: len=%d cap=%d offset=%d\n", b1.Len(), cap(b1.Bytes()), b1.Offset())
	fmt.Printf("b2: len=%d cap=%d offset=%d\n", b2.Len(), cap(b2.Bytes()), b2.Offset())
	fmt.Printf("available=%d\n", a.Available())

	a.Free(b1)
	a.Free(b2)

	// Output:
	// b1: len=1024 cap=4096 offset=0
	// b2: len=8193 cap=16384 offset=16384
	// available=12288
}
