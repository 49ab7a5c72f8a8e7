// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package session

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Batch runs a list of requests concurrently, with at most workers requests
// in flight (no limit when workers is not positive). Responses are in the
// order of the requests. The only error returned is the cancellation of ctx;
// a failed request gives an error response.
func (r *Runner) Batch(ctx context.Context, requests []json.RawMessage, workers int) ([]Response, error) {
	res := make([]Response, len(requests))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for k, data := range requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res[k] = r.Run(ctx, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.WarnContext(ctx, "batch interrupted", slog.String("error", err.Error()))
		return nil, err
	}
	total := Total(res)
	r.logger.InfoContext(ctx, "batch completed",
		slog.Int("queries", len(res)),
		slog.Int("merges", total.Merges),
		slog.Int("largest_factor", total.LargestFactor),
	)
	return res, nil
}
