// Package api defines the collaborator contracts around the shared
// memory exchange: the detector producing raw detections and the
// renderer consuming published batches. Both stay opaque to the
// protocol; this package only fixes their shape.
package api

import (
	"context"

	"github.com/edgevision/detshm/pkg/detshm"
)

// Detector produces raw detections for an input image, before any
// capacity truncation. Model, thresholding and non-max suppression are
// entirely the implementation's concern.
type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]detshm.Detection, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, imagePath string) ([]detshm.Detection, error)

func (f DetectorFunc) Detect(ctx context.Context, imagePath string) ([]detshm.Detection, error) {
	return f(ctx, imagePath)
}
