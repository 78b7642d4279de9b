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
	"errors"
	"fmt"
)

const (
	// DefaultMinBlockShift is log2 of the default minimum block size.
	DefaultMinBlockShift = 16

	// DefaultMinBlockSize is the default minimum block size (64KB).
	DefaultMinBlockSize = 1 << DefaultMinBlockShift

	// DefaultBlockLevels is the default number of minimum blocks in the arena.
	DefaultBlockLevels = 8

	maxMinBlockShift = 30
	maxBlockLevels   = 1 << 30
)

var (
	ErrInvalidConfig = errors.New("buddy: invalid config")
	ErrArenaTooSmall = errors.New("buddy: arena too small")
)

// Config fixes the geometry of a BuddyAllocator.
//
// The arena holds BlockLevels blocks of 1<<MinBlockShift bytes. BlockLevels
// must be a power of two; the free tree is log2(BlockLevels) levels deep,
// so a request is served by a block of MinBlockSize<<level bytes with
// level in [0, log2(BlockLevels)].
type Config struct {
	MinBlockShift int
	BlockLevels   int
}

// DefaultConfig returns 8 blocks of 64KB.
func DefaultConfig() Config {
	return Config{
		MinBlockShift: DefaultMinBlockShift,
		BlockLevels:   DefaultBlockLevels,
	}
}

// Validate reports whether c describes a usable arena.
func (c Config) Validate() error {
	if c.MinBlockShift < 0 || c.MinBlockShift > maxMinBlockShift {
		return fmt.Errorf("%w: MinBlockShift must be in [0, %d], got %d",
			ErrInvalidConfig, maxMinBlockShift, c.MinBlockShift)
	}
	if c.BlockLevels <= 0 || c.BlockLevels&(c.BlockLevels-1) != 0 {
		return fmt.Errorf("%w: BlockLevels must be a power of two, got %d",
			ErrInvalidConfig, c.BlockLevels)
	}
	if c.BlockLevels > maxBlockLevels {
		return fmt.Errorf("%w: BlockLevels must be <= %d, got %d",
			ErrInvalidConfig, maxBlockLevels, c.BlockLevels)
	}
	if uint64(c.BlockLevels)<<uint(c.MinBlockShift) > uint64(maxInt) {
		return fmt.Errorf("%w: capacity %d<<%d overflows int",
			ErrInvalidConfig, c.BlockLevels, c.MinBlockShift)
	}
	return nil
}

// MinBlockSize returns the smallest allocatable unit in bytes.
func (c Config) MinBlockSize() int {
	return 1 << uint(c.MinBlockShift)
}

// Capacity returns the arena size in bytes.
func (c Config) Capacity() int {
	return c.BlockLevels << uint(c.MinBlockShift)
}

const maxInt = int(^uint(0) >> 1)
