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
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// DefaultCapacity is the number of detection slots a segment
	// reserves when the caller does not pick one.
	DefaultCapacity = 10

	// DefaultName is the well-known segment name shared with the C and
	// Python producers of the same record.
	DefaultName = "ipc_yolov4_shm"
)

// Segment layout: count 4 byte | detection slots, 24 byte each.
// Detection slot: class_id 4 byte | confidence 4 byte | x 4 byte |
// y 4 byte | w 4 byte | h 4 byte. All fields little-endian, no padding.
const (
	countOffset   = 0
	countSize     = 4
	detectionSize = 24

	classIDOffset    = 0
	confidenceOffset = 4
	boxXOffset       = 8
	boxYOffset       = 12
	boxWOffset       = 16
	boxHOffset       = 20
)

// Detection is one recognized object instance. Field values are taken
// as the producer emitted them: confidence is not clamped and box
// fields are not checked against image bounds here.
type Detection struct {
	ClassID    int32
	Confidence float32
	X, Y, W, H int32
}

// Batch is one published snapshot of detection results. Its length is
// the record's count; Publish truncates it to the stream capacity.
type Batch struct {
	Detections []Detection
}

// Count returns the number of valid detections in the batch.
func (b Batch) Count() int { return len(b.Detections) }

// SegmentSize returns the byte size of a segment holding capacity
// detection slots.
func SegmentSize(capacity int) int {
	return countSize + capacity*detectionSize
}

// encodeBatch writes the batch into dst, count first then each slot in
// index order. len(b.Detections) must not exceed capacity. When
// zeroTail is set the slots past count are zero-filled; otherwise
// their prior contents are left alone and readers must stop at count.
func encodeBatch(dst []byte, b Batch, capacity int, zeroTail bool) {
	binary.LittleEndian.PutUint32(dst[countOffset:], uint32(int32(len(b.Detections))))
	for i, d := range b.Detections {
		slot := dst[countSize+i*detectionSize:]
		binary.LittleEndian.PutUint32(slot[classIDOffset:], uint32(d.ClassID))
		binary.LittleEndian.PutUint32(slot[confidenceOffset:], math.Float32bits(d.Confidence))
		binary.LittleEndian.PutUint32(slot[boxXOffset:], uint32(d.X))
		binary.LittleEndian.PutUint32(slot[boxYOffset:], uint32(d.Y))
		binary.LittleEndian.PutUint32(slot[boxWOffset:], uint32(d.W))
		binary.LittleEndian.PutUint32(slot[boxHOffset:], uint32(d.H))
	}
	if zeroTail {
		for i := len(b.Detections); i < capacity; i++ {
			slot := dst[countSize+i*detectionSize : countSize+(i+1)*detectionSize]
			for j := range slot {
				slot[j] = 0
			}
		}
	}
}

// decodeBatch interprets src per the fixed layout. A count outside
// [0, capacity] marks the record corrupt; slots past count are never
// touched.
func decodeBatch(src []byte, capacity int) (Batch, error) {
	count := int32(binary.LittleEndian.Uint32(src[countOffset:]))
	if count < 0 || int(count) > capacity {
		return Batch{}, fmt.Errorf("record count %d outside [0,%d]: %w", count, capacity, ErrCorruptRecord)
	}
	if count == 0 {
		return Batch{}, nil
	}
	dets := make([]Detection, count)
	for i := range dets {
		slot := src[countSize+i*detectionSize:]
		dets[i] = Detection{
			ClassID:    int32(binary.LittleEndian.Uint32(slot[classIDOffset:])),
			Confidence: math.Float32frombits(binary.LittleEndian.Uint32(slot[confidenceOffset:])),
			X:          int32(binary.LittleEndian.Uint32(slot[boxXOffset:])),
			Y:          int32(binary.LittleEndian.Uint32(slot[boxYOffset:])),
			W:          int32(binary.LittleEndian.Uint32(slot[boxWOffset:])),
			H:          int32(binary.LittleEndian.Uint32(slot[boxHOffset:])),
		}
	}
	return Batch{Detections: dets}, nil
}
