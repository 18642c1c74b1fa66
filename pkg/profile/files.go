package profile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wdm0006/synthprep/pkg/frame"
)

// Loader reads one input into a frame.
type Loader func(ctx context.Context, path string) (*frame.Frame, error)

// Files profiles each path concurrently, at most limit at a time (0 means
// no limit). Results are in path order; the first error cancels the rest.
func Files(ctx context.Context, paths []string, load Loader, topK, limit int) ([]*Collector, error) {
	out := make([]*Collector, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := load(ctx, p)
			if err != nil {
				return err
			}
			c := NewCollector(f.Schema(), topK)
			c.ConsumeFrame(f)
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
