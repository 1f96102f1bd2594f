// Package adapter wires the detection streams into external monitoring.
package adapter

import (
	"context"
	"errors"
	"os"

	"github.com/heptiolabs/healthcheck"

	"github.com/edgevision/detshm/pkg/detshm"
)

// NewHealthHandler returns liveness/readiness probes for a long-running
// poller or publisher over the given stream. Liveness checks that the
// shared-memory directory is reachable; readiness checks that the
// segment exists and decodes (a not-yet-published or corrupt segment is
// not ready, which is the expected state while the writer warms up).
func NewHealthHandler(opts detshm.Options) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("shm-dir", func() error {
		dir := opts.Dir
		if dir == "" {
			dir = "/dev/shm"
		}
		_, err := os.Stat(dir)
		return err
	})
	h.AddReadinessCheck("segment-readable", func() error {
		_, err := detshm.Consume(context.Background(), opts)
		if err != nil && !errors.Is(err, detshm.ErrTruncated) {
			return err
		}
		return nil
	})
	return h
}
