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
	"context"
	"os"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() Batch {
	return Batch{Detections: []Detection{
		{ClassID: 0, Confidence: 0.89, X: 150, Y: 200, W: 80, H: 120},
		{ClassID: 2, Confidence: 0.76, X: 400, Y: 150, W: 200, H: 150},
		{ClassID: 1, Confidence: 0.65, X: 50, Y: 300, W: 100, H: 80},
	}}
}

func TestPublishConsumeRoundTrip(t *testing.T) {
	opts := Options{Dir: t.TempDir(), Name: "detections"}
	batch := sampleBatch()

	require.Nil(t, Publish(context.Background(), opts, batch))

	got, err := Consume(context.Background(), opts)
	require.Nil(t, err)
	assert.Equal(t, 3, got.Count())
	assert.Equal(t, batch.Detections, got.Detections)
}

func TestPublishFullCapacity(t *testing.T) {
	opts := Options{Dir: t.TempDir(), Name: "detections"}
	dets := make([]Detection, DefaultCapacity)
	for i := range dets {
		dets[i] = Detection{ClassID: int32(i), Confidence: float32(i) / 10, X: int32(i), W: 1, H: 1}
	}

	require.Nil(t, Publish(context.Background(), opts, Batch{Detections: dets}))

	got, err := Consume(context.Background(), opts)
	require.Nil(t, err)
	assert.Equal(t, DefaultCapacity, got.Count())
	assert.Equal(t, dets, got.Detections)
}

func TestPublishTruncates(t *testing.T) {
	opts := Options{Dir: t.TempDir(), Name: "detections"}
	dets := make([]Detection, DefaultCapacity+5)
	for i := range dets {
		dets[i] = Detection{ClassID: int32(i)}
	}

	before := counterValue(t, publishTruncatedTotal)
	err := Publish(context.Background(), opts, Batch{Detections: dets})
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, before+1, counterValue(t, publishTruncatedTotal))

	got, cerr := Consume(context.Background(), opts)
	require.Nil(t, cerr)
	assert.Equal(t, DefaultCapacity, got.Count())
	assert.Equal(t, dets[:DefaultCapacity], got.Detections)
}

func TestPublishNeverShrinksStaleSegment(t *testing.T) {
	dir := t.TempDir()

	// a prior writer version left a larger segment behind
	big := Options{Dir: dir, Name: "detections", Capacity: 20}
	require.Nil(t, Publish(context.Background(), big, sampleBatch()))

	opts := Options{Dir: dir, Name: "detections"}
	require.Nil(t, Publish(context.Background(), opts, sampleBatch()))

	st, err := os.Stat(dir + "/detections")
	require.Nil(t, err)
	assert.Equal(t, int64(SegmentSize(20)), st.Size())

	got, err := Consume(context.Background(), opts)
	require.Nil(t, err)
	assert.Equal(t, sampleBatch().Detections, got.Detections)
}

func TestPublishOverwritesInPlace(t *testing.T) {
	opts := Options{Dir: t.TempDir(), Name: "detections"}
	require.Nil(t, Publish(context.Background(), opts, sampleBatch()))

	second := Batch{Detections: []Detection{{ClassID: 9, Confidence: 0.42, X: 1, Y: 2, W: 3, H: 4}}}
	require.Nil(t, Publish(context.Background(), opts, second))

	got, err := Consume(context.Background(), opts)
	require.Nil(t, err)
	assert.Equal(t, second.Detections, got.Detections)
}

func TestPublishEmptyBatch(t *testing.T) {
	opts := Options{Dir: t.TempDir(), Name: "detections"}
	require.Nil(t, Publish(context.Background(), opts, Batch{}))

	got, err := Consume(context.Background(), opts)
	require.Nil(t, err)
	assert.Equal(t, 0, got.Count())
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.Nil(t, c.Write(m))
	return m.GetCounter().GetValue()
}
