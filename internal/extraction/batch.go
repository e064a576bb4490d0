package extraction

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/a3tai/mcp-findoc-extractor/internal/document"
)

// ProcessBatch runs the engine over many documents with at most workers in
// flight. Results keep the input order. Cancellation is checked before each
// document starts; a running document always completes.
func ProcessBatch(ctx context.Context, engine *Engine, docs []document.RawDocumentText, workers int) ([]*FinancialRecord, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]*FinancialRecord, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = engine.Process(docs[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
