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
	"bytes"
	"context"

	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/edgevision/detshm/internal/shm"
)

// Consume snapshots the stream's segment and decodes it. The mapping
// is released before decoding, so the caller owns the returned batch
// and no shared resource stays pinned across processing.
//
// A missing segment returns ErrSegmentNotFound: the writer has not run
// yet, retry later. A count outside [0, capacity] returns
// ErrCorruptRecord and nothing is read past the array bounds.
//
// If the segment bytes change while the snapshot is being taken the
// copy is retried once and the latest snapshot wins; a record torn
// within one copy but with an in-range count is returned as-is
// (best-effort, last-writer-wins).
func Consume(ctx context.Context, opts Options) (Batch, error) {
	return consume(ctx, opts.withDefaults(), nil)
}

func consume(ctx context.Context, opts Options, ins *instruments) (Batch, error) {
	if opts.Tracer != nil {
		var span trace.Span
		ctx, span = opts.Tracer.Start(ctx, "detshm.Consume")
		defer span.End()
	}
	size := SegmentSize(opts.Capacity)
	region, err := shm.OpenExisting(opts.Dir, opts.Name, size)
	if err != nil {
		return Batch{}, classifyOpenErr(err)
	}
	snap := bytebufferpool.Get()
	defer bytebufferpool.Put(snap)
	snap.Reset()
	_, _ = snap.Write(region.Data)
	if !bytes.Equal(snap.B, region.Data) {
		consumeTornRetryTotal.Inc()
		internalLogger.debugf("consume segment %q: bytes moved mid-copy, retaking snapshot", opts.Name)
		snap.Reset()
		_, _ = snap.Write(region.Data)
	}
	if cerr := region.Close(); cerr != nil {
		internalLogger.warnf("consume segment %q: release mapping: %v", opts.Name, cerr)
	}
	batch, err := decodeBatch(snap.B, opts.Capacity)
	if err != nil {
		consumeCorruptTotal.Inc()
		return Batch{}, err
	}
	consumeTotal.Inc()
	if ins != nil {
		ins.consumed.Add(ctx, 1)
	}
	return batch, nil
}
