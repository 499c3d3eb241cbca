package services

import (
	"context"
	"sync"

	"github.com/axellelanca/quickurl/internal/models"
)

// defaultBatchWorkers is the number of goroutines shortening URLs of one batch.
// Each create waits on a reachability check, so a few run side by side.
const defaultBatchWorkers = 4

// BatchResult is the outcome of one URL of a batch create.
type BatchResult struct {
	URL  string
	Link *models.Link // nil on failure
	Err  error
}

type batchJob struct {
	index int
	url   string
}

// CreateLinks shortens every URL for owner using a small worker pool.
// Results keep the order of urls; one failing URL does not stop the others.
func (s *LinkService) CreateLinks(ctx context.Context, owner string, urls []string) []BatchResult {
	results := make([]BatchResult, len(urls))
	if len(urls) == 0 {
		return results
	}

	workerCount := defaultBatchWorkers
	if len(urls) < workerCount {
		workerCount = len(urls)
	}

	jobs := make(chan batchJob, len(urls))
	for i, u := range urls {
		jobs <- batchJob{index: i, url: u}
	}
	close(jobs)

	s.logger.Debug().Int("urls", len(urls)).Int("workers", workerCount).Msg("starting batch create")

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.batchWorker(ctx, owner, jobs, results)
		}()
	}
	wg.Wait()

	return results
}

// batchWorker drains jobs until the channel is closed. Each job writes only its own
// slot of results.
func (s *LinkService) batchWorker(ctx context.Context, owner string, jobs <-chan batchJob, results []BatchResult) {
	for job := range jobs {
		link, err := s.CreateLink(ctx, owner, job.url)
		results[job.index] = BatchResult{URL: job.url, Link: link, Err: err}
	}
}
