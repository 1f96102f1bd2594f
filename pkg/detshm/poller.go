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
	"errors"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/panjf2000/ants/v2"
)

// Handler receives every non-empty batch a Poller consumes.
type Handler func(Batch)

// Source produces the next list of raw detections for a Publisher,
// before any capacity truncation.
type Source func(ctx context.Context) ([]Detection, error)

const (
	defaultInterval = time.Second
	handlerBacklog  = 64
)

// Poller is the reader side of continuous operation: it consumes the
// stream at a fixed interval and hands non-empty batches to the
// handler through a worker pool. The writer and this loop stay
// unsynchronized; batches published between two polls are simply never
// observed, and when the backlog is full the freshest batch wins by
// dropping the new one on the floor rather than blocking the poll.
type Poller struct {
	stream   *Stream
	interval time.Duration
	handler  Handler
	pool     *ants.Pool
	ring     *queue.RingBuffer
}

// NewPoller builds a poller over the stream. A non-positive interval
// defaults to one second; workers is the handler pool size.
func NewPoller(stream *Stream, interval time.Duration, workers int, handler Handler) (*Poller, error) {
	if handler == nil {
		return nil, errors.New("detshm: poller needs a handler")
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Poller{
		stream:   stream,
		interval: interval,
		handler:  handler,
		pool:     pool,
		ring:     queue.NewRingBuffer(handlerBacklog),
	}, nil
}

// Run polls until ctx is cancelled. Not-found and corrupt reads are
// logged and retried on the next tick; environment failures (create,
// map) end the loop. Cancellation returns nil. A Poller is single-use:
// once Run returns it cannot be restarted.
func (p *Poller) Run(ctx context.Context) error {
	go p.dispatch()
	defer p.pool.Release()
	defer p.ring.Dispose()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	name := p.stream.Options().Name
	for {
		batch, err := p.stream.Consume(ctx)
		switch {
		case errors.Is(err, ErrSegmentNotFound):
			internalLogger.debugf("poll segment %q: not published yet", name)
		case errors.Is(err, ErrCorruptRecord):
			internalLogger.warnf("poll segment %q: %v", name, err)
		case err != nil:
			return err
		case batch.Count() > 0:
			ok, derr := p.ring.Offer(batch)
			if derr != nil {
				return derr
			}
			if !ok {
				internalLogger.debugf("poll segment %q: handler backlog full, dropping batch", name)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) dispatch() {
	for {
		item, err := p.ring.Get()
		if err != nil {
			return
		}
		batch := item.(Batch)
		if err := p.pool.Submit(func() { p.handler(batch) }); err != nil {
			return
		}
	}
}

// Publisher is the writer side of continuous operation: it pulls
// detections from the source and republishes into the same segment at
// a fixed interval, overwriting the previous batch in place.
type Publisher struct {
	stream   *Stream
	interval time.Duration
	source   Source
}

// NewPublisher builds a publisher over the stream. A non-positive
// interval defaults to one second.
func NewPublisher(stream *Stream, interval time.Duration, source Source) (*Publisher, error) {
	if source == nil {
		return nil, errors.New("detshm: publisher needs a source")
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Publisher{stream: stream, interval: interval, source: source}, nil
}

// Run publishes until ctx is cancelled. Source failures are logged and
// skipped; truncation is already logged by Publish and does not stop
// the loop; create/map failures end it. Cancellation returns nil.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	name := p.stream.Options().Name
	for {
		dets, err := p.source(ctx)
		if err != nil {
			internalLogger.warnf("publish segment %q: source: %v", name, err)
		} else if err := p.stream.Publish(ctx, Batch{Detections: dets}); err != nil && !errors.Is(err, ErrTruncated) {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
