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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentSize(t *testing.T) {
	//count 4 byte + 10 slots * 24 byte
	assert.Equal(t, 244, SegmentSize(DefaultCapacity))
	assert.Equal(t, 4, SegmentSize(0))
	assert.Equal(t, 4+24*3, SegmentSize(3))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	batch := Batch{Detections: []Detection{
		{ClassID: 0, Confidence: 0.89, X: 150, Y: 200, W: 80, H: 120},
		{ClassID: 2, Confidence: 0.76, X: 400, Y: 150, W: 200, H: 150},
		{ClassID: 1, Confidence: 0.65, X: 50, Y: 300, W: 100, H: 80},
	}}
	buf := make([]byte, SegmentSize(DefaultCapacity))
	encodeBatch(buf, batch, DefaultCapacity, true)

	got, err := decodeBatch(buf, DefaultCapacity)
	assert.Nil(t, err)
	assert.Equal(t, batch.Detections, got.Detections)
}

func TestEncodeWireFormat(t *testing.T) {
	batch := Batch{Detections: []Detection{
		{ClassID: 7, Confidence: 0.5, X: -3, Y: 12, W: 80, H: 120},
	}}
	buf := make([]byte, SegmentSize(DefaultCapacity))
	encodeBatch(buf, batch, DefaultCapacity, true)

	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, math.Float32bits(0.5), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, int32(-3), int32(binary.LittleEndian.Uint32(buf[12:])))
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(buf[16:]))
	assert.Equal(t, uint32(80), binary.LittleEndian.Uint32(buf[20:]))
	assert.Equal(t, uint32(120), binary.LittleEndian.Uint32(buf[24:]))
}

func TestEncodeLeavesTailOnReuse(t *testing.T) {
	buf := make([]byte, SegmentSize(DefaultCapacity))
	for i := range buf {
		buf[i] = 0xAB
	}
	batch := Batch{Detections: []Detection{{ClassID: 1}}}
	encodeBatch(buf, batch, DefaultCapacity, false)

	// slots past count keep their stale bytes
	assert.Equal(t, byte(0xAB), buf[countSize+detectionSize])

	got, err := decodeBatch(buf, DefaultCapacity)
	assert.Nil(t, err)
	assert.Equal(t, 1, got.Count())
}

func TestDecodeCorruptCount(t *testing.T) {
	buf := make([]byte, SegmentSize(DefaultCapacity))

	negOne := int32(-1)
	binary.LittleEndian.PutUint32(buf, uint32(negOne))
	_, err := decodeBatch(buf, DefaultCapacity)
	assert.ErrorIs(t, err, ErrCorruptRecord)

	binary.LittleEndian.PutUint32(buf, uint32(DefaultCapacity+1))
	_, err = decodeBatch(buf, DefaultCapacity)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestDecodeEmpty(t *testing.T) {
	buf := make([]byte, SegmentSize(DefaultCapacity))
	got, err := decodeBatch(buf, DefaultCapacity)
	assert.Nil(t, err)
	assert.Equal(t, 0, got.Count())
}
