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
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/edgevision/detshm/internal/shm"
)

// Publish writes the batch into the stream's segment, creating the
// segment when absent. The segment is never unlinked here: it is meant
// to outlive the writer so a reader started later still finds it.
//
// Batches longer than the stream capacity are truncated; the write
// still completes and the returned error wraps ErrTruncated so callers
// can log and move on (errors.Is(err, ErrTruncated)).
//
// The write is not atomic with respect to a concurrent reader. There
// is no lock and no fence; a racing reader may observe a torn record.
// Readers bound-check count and may retry (see Consume).
func Publish(ctx context.Context, opts Options, batch Batch) error {
	return publish(ctx, opts.withDefaults(), batch, nil)
}

func publish(ctx context.Context, opts Options, batch Batch, ins *instruments) (err error) {
	if opts.Tracer != nil {
		var span trace.Span
		ctx, span = opts.Tracer.Start(ctx, "detshm.Publish")
		defer span.End()
	}
	dropped := 0
	if len(batch.Detections) > opts.Capacity {
		dropped = len(batch.Detections) - opts.Capacity
		batch.Detections = batch.Detections[:opts.Capacity]
		publishTruncatedTotal.Inc()
		internalLogger.warnf("publish segment %q: dropping %d detection(s) beyond capacity %d",
			opts.Name, dropped, opts.Capacity)
	}
	region, err := shm.CreateOrOpen(opts.Dir, opts.Name, SegmentSize(opts.Capacity))
	if err != nil {
		return classifyCreateErr(err)
	}
	defer func() {
		if cerr := region.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	// Zero the tail only on a segment this writer just created. On
	// reuse the slots past count keep their stale bytes; readers stop
	// at count and never see them.
	encodeBatch(region.Data, batch, opts.Capacity, region.Created)
	publishTotal.Inc()
	if ins != nil {
		ins.published.Add(ctx, 1)
	}
	if dropped > 0 {
		return fmt.Errorf("publish segment %q: dropped %d detection(s): %w", opts.Name, dropped, ErrTruncated)
	}
	return nil
}
