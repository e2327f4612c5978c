package transcript

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MaxBatchSize is the per-call video limit; larger batches fail whole before
// any work starts.
const MaxBatchSize = 10

// batchWorkers bounds batch concurrency below the default per-minute rate
// limit, so one batch cannot drain the limiter for unrelated requests.
const batchWorkers = 4

// BatchCoordinator fans a multi-video request out across the Service. Items
// succeed or fail independently; results come back in input order.
type BatchCoordinator struct {
	service *Service
}

func NewBatchCoordinator(service *Service) *BatchCoordinator {
	return &BatchCoordinator{service: service}
}

// Process fetches transcripts for every input, each normalized and fetched
// independently. An invalid reference or a source failure becomes that item's
// failure outcome; only the upfront size check aborts the whole call.
func (b *BatchCoordinator) Process(ctx context.Context, inputs []string, language string) ([]BatchResult, error) {
	if len(inputs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d videos exceeds batch maximum of %d", ErrInvalidParameter, len(inputs), MaxBatchSize)
	}

	results := make([]BatchResult, len(inputs))

	// Plain Group, not WithContext: one item's failure must never cancel
	// sibling work, and failures travel in results, not through Wait.
	var g errgroup.Group
	g.SetLimit(batchWorkers)
	for i, raw := range inputs {
		g.Go(func() error {
			results[i].Raw = raw
			ref, err := ParseVideoRef(raw)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Ref = ref
			tr, err := b.service.fetch(ctx, ref, language)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Transcript = tr
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}
