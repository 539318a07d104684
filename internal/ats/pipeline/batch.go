package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome for one request. Exactly one of Result and Err
// is set.
type BatchItem struct {
	Request Request
	Result  *Result
	Err     error
}

// ProcessBatch runs reqs with bounded concurrency. A failing request does
// not stop the others. Items come back in request order; no ranking is
// applied.
func (p *Processor) ProcessBatch(ctx context.Context, reqs []Request) []BatchItem {
	items := make([]BatchItem, len(reqs))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i := range reqs {
		items[i].Request = reqs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result, items[i].Err = p.Process(ctx, reqs[i])
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}
	p.log.Info("batch processed", map[string]interface{}{
		"total":  len(items),
		"failed": failed,
	})
	return items
}
