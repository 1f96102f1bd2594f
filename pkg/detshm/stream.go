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

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	published metric.Int64Counter
	consumed  metric.Int64Counter
}

func newInstruments(m metric.Meter) (*instruments, error) {
	published, err := m.Int64Counter("detshm.published",
		metric.WithDescription("Batches published to shared memory."))
	if err != nil {
		return nil, err
	}
	consumed, err := m.Int64Counter("detshm.consumed",
		metric.WithDescription("Batches consumed from shared memory."))
	if err != nil {
		return nil, err
	}
	return &instruments{published: published, consumed: consumed}, nil
}

// Stream binds one segment name and capacity together with its OTel
// instruments, so repeated publishes and consumes reuse them.
type Stream struct {
	opts Options
	ins  *instruments
}

// NewStream resolves the options and, when a Meter is configured,
// creates the stream's instruments.
func NewStream(opts Options) (*Stream, error) {
	opts = opts.withDefaults()
	s := &Stream{opts: opts}
	if opts.Meter != nil {
		ins, err := newInstruments(opts.Meter)
		if err != nil {
			return nil, err
		}
		s.ins = ins
	}
	return s, nil
}

// Options returns the resolved stream options.
func (s *Stream) Options() Options { return s.opts }

// Publish writes the batch into this stream's segment. See Publish.
func (s *Stream) Publish(ctx context.Context, batch Batch) error {
	return publish(ctx, s.opts, batch, s.ins)
}

// Consume snapshots and decodes this stream's segment. See Consume.
func (s *Stream) Consume(ctx context.Context) (Batch, error) {
	return consume(ctx, s.opts, s.ins)
}

// Unlink removes this stream's segment from the namespace.
func (s *Stream) Unlink() error {
	return Unlink(s.opts)
}

// Registry hands out streams by segment name so independent detection
// streams coexist, each under its own name and capacity.
type Registry struct {
	streams cmap.ConcurrentMap[string, *Stream]
}

// NewRegistry returns an empty stream registry.
func NewRegistry() *Registry {
	return &Registry{streams: cmap.New[*Stream]()}
}

// Get returns the stream registered under the options' name, creating
// it on first use. Later calls with a different capacity for the same
// name return the original stream; the first registration wins.
func (r *Registry) Get(opts Options) (*Stream, error) {
	opts = opts.withDefaults()
	if s, ok := r.streams.Get(opts.Name); ok {
		return s, nil
	}
	s, err := NewStream(opts)
	if err != nil {
		return nil, err
	}
	r.streams.SetIfAbsent(opts.Name, s)
	s, _ = r.streams.Get(opts.Name)
	return s, nil
}

// Names lists the registered segment names.
func (r *Registry) Names() []string { return r.streams.Keys() }

// Remove drops the stream from the registry. The segment itself stays
// in the namespace until someone unlinks it.
func (r *Registry) Remove(name string) { r.streams.Remove(name) }
