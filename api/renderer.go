package api

import (
	"context"

	"github.com/edgevision/detshm/pkg/detshm"
)

// Renderer draws a consumed batch onto the referenced image and writes
// the annotated result to outputPath.
type Renderer interface {
	Render(ctx context.Context, imagePath, outputPath string, batch detshm.Batch) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, imagePath, outputPath string, batch detshm.Batch) error

func (f RendererFunc) Render(ctx context.Context, imagePath, outputPath string, batch detshm.Batch) error {
	return f(ctx, imagePath, outputPath, batch)
}
