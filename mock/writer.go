package mock

import (
	"context"

	"github.com/fwojciec/doctext"
)

var _ doctext.ArtifactWriter = (*ArtifactWriter)(nil)

// ArtifactWriter is a mock implementation of doctext.ArtifactWriter.
type ArtifactWriter struct {
	PrepareFn func(ctx context.Context) error
	SaveFn    func(ctx context.Context, url string, text string) (string, error)
	FinishFn  func(ctx context.Context, run *doctext.Run) error
}

func (w *ArtifactWriter) Prepare(ctx context.Context) error {
	return w.PrepareFn(ctx)
}

func (w *ArtifactWriter) Save(ctx context.Context, url string, text string) (string, error) {
	return w.SaveFn(ctx, url, text)
}

func (w *ArtifactWriter) Finish(ctx context.Context, run *doctext.Run) error {
	return w.FinishFn(ctx, run)
}
