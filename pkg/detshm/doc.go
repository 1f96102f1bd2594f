// Package detshm exchanges object-detection batches between processes
// over a named POSIX shared-memory segment.
//
// The wire contract is a fixed little-endian record: a 4-byte count
// followed by a fixed number of 24-byte detection slots (class id,
// confidence, box x/y/w/h, all 4-byte fields, no padding). Any
// process agreeing on the segment name and capacity — C, Python or Go —
// reads the same bytes. At the default capacity of 10 the segment is
// 244 bytes.
//
// There is no lock, no ready flag and no sequence number on the wire:
// a writer publishes best-effort and readers take bounded snapshots,
// rejecting out-of-range counts and retaking a snapshot once when the
// bytes move mid-copy.
//
// Example usage:
//
//	opts := detshm.Options{Name: "ipc_yolov4_shm"}
//	err := detshm.Publish(ctx, opts, detshm.Batch{Detections: dets})
//	// ...
//	batch, err := detshm.Consume(ctx, opts)
//
// Continuous operation uses Publisher and Poller; readers racing a
// writer's first publish use ConsumeWithRetry.
package detshm
