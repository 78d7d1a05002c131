package participant

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/LauraLarens/Thesis-project/internal/model"
)

// LoadAllParallel loads participant files across a bounded worker pool.
// Results land in a slice indexed by file position and are concatenated in
// that order afterwards, so IDs and row order match LoadAll exactly
// regardless of completion order.
func LoadAllParallel(ctx context.Context, paths []string, workers int) ([]model.ParticipantResponse, error) {
	if workers <= 1 || len(paths) < 2 {
		return LoadAll(paths)
	}

	results := make([][]model.ParticipantResponse, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			responses, err := LoadFile(path, ID(i+1))
			if err != nil {
				return err
			}
			results[i] = responses
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var all []model.ParticipantResponse
	for _, responses := range results {
		all = append(all, responses...)
	}
	return all, nil
}
