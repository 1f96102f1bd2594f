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
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/edgevision/detshm/internal/shm"
)

// Options identifies one detection stream. Name and Capacity are the
// whole cross-process contract: two processes agreeing on them (and on
// byte order) agree on the segment. There are no hidden constants;
// independent streams coexist under distinct names.
type Options struct {
	// Dir is the shared-memory directory. Empty means /dev/shm.
	Dir string
	// Name is the segment name inside Dir. Empty means DefaultName.
	Name string
	// Capacity is the number of reserved detection slots. Zero means
	// DefaultCapacity. Changing it changes the segment size and breaks
	// compatibility with peers built for another value.
	Capacity int

	// Meter and Tracer, when set, instrument Publish/Consume with
	// OpenTelemetry. Nil disables instrumentation.
	Meter  metric.Meter
	Tracer trace.Tracer
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = shm.DefaultDir
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	return o
}

// SegmentSize returns the segment byte size these options imply.
func (o Options) SegmentSize() int {
	return SegmentSize(o.withDefaults().Capacity)
}

// Unlink removes the stream's segment from the namespace. Removing an
// absent segment is a no-op. Neither Publish nor Consume ever unlinks:
// the segment is meant to outlive both processes.
func Unlink(opts Options) error {
	opts = opts.withDefaults()
	return shm.Unlink(opts.Dir, opts.Name)
}
