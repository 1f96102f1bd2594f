/*
 * Copyright 2025 EdgeVision Authors
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

package detshm

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/edgevision/detshm/internal/shm"
)

var (
	// ErrSegmentNotFound means the reader ran before any writer
	// published. Recoverable: retry later (see ConsumeWithRetry).
	ErrSegmentNotFound = errors.New("detection segment not found")

	// ErrSegmentCreate means the writer could not create or grow the
	// segment (permissions, missing shm filesystem, no space).
	ErrSegmentCreate = errors.New("detection segment create failed")

	// ErrMap means mapping the segment into the address space failed,
	// or an existing segment is too small for the layout.
	ErrMap = errors.New("detection segment map failed")

	// ErrCorruptRecord means the segment's count decodes outside
	// [0, capacity]. There is no usable data this read; poll again.
	ErrCorruptRecord = errors.New("corrupt detection record")

	// ErrTruncated is returned by Publish when detections beyond the
	// stream capacity were dropped. The publish itself completed.
	ErrTruncated = errors.New("detections truncated to capacity")
)

// Process exit codes, one per failure class, so operators can script
// retries against them.
const (
	ExitOK       = 0
	ExitNotFound = 2
	ExitCreate   = 3
	ExitMap      = 4
	ExitCorrupt  = 5
	ExitFailure  = 1
)

// ExitCode maps an error from this package to its documented process
// exit code. ErrTruncated is a warning, not a failure.
func ExitCode(err error) int {
	switch {
	case err == nil || errors.Is(err, ErrTruncated):
		return ExitOK
	case errors.Is(err, ErrSegmentNotFound):
		return ExitNotFound
	case errors.Is(err, ErrSegmentCreate):
		return ExitCreate
	case errors.Is(err, ErrMap):
		return ExitMap
	case errors.Is(err, ErrCorruptRecord):
		return ExitCorrupt
	default:
		return ExitFailure
	}
}

// classifyOpenErr folds an internal open/map failure into the reader
// taxonomy, keeping the OS error text.
func classifyOpenErr(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrSegmentNotFound, err)
	case errors.Is(err, shm.ErrMmap), errors.Is(err, shm.ErrShortSegment):
		return fmt.Errorf("%w: %w", ErrMap, err)
	default:
		return fmt.Errorf("%w: %w", ErrSegmentCreate, err)
	}
}

// classifyCreateErr folds an internal create-or-open failure into the
// writer taxonomy.
func classifyCreateErr(err error) error {
	if errors.Is(err, shm.ErrMmap) {
		return fmt.Errorf("%w: %w", ErrMap, err)
	}
	return fmt.Errorf("%w: %w", ErrSegmentCreate, err)
}
