package jobsearch

import (
	"context"
	"log"
	"strings"
	"sync"
)

const (
	DefaultWorkers = 4
	DefaultLimit   = 50
)

// Task is one backend call in a fan-out.
type Task struct {
	Backend Backend
	Query   Query
}

// Aggregator runs tasks on a fixed number of workers and merges the results.
type Aggregator struct {
	workers int
	limit   int
}

func NewAggregator(workers int, limit int) *Aggregator {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Aggregator{workers: workers, limit: limit}
}

// Search never fails as a whole: a failing task is logged and contributes
// nothing. Results keep task order, are de-duplicated by URL and capped.
func (aggregator *Aggregator) Search(ctx context.Context, tasks []Task) []Posting {
	results := make([][]Posting, len(tasks))
	indexes := make(chan int)

	workers := aggregator.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range indexes {
				task := tasks[index]
				postings, err := task.Backend.Search(ctx, task.Query)
				if err != nil {
					log.Printf("job search: %s (%s) failed: %v", task.Backend.Name(), task.Query.Country, err)
					continue
				}
				results[index] = postings
			}
		}()
	}

dispatch:
	for index := range tasks {
		select {
		case indexes <- index:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(indexes)
	wg.Wait()

	return aggregator.merge(results)
}

func (aggregator *Aggregator) merge(results [][]Posting) []Posting {
	seen := make(map[string]struct{})
	merged := make([]Posting, 0)
	for _, postings := range results {
		for _, posting := range postings {
			key := dedupeKey(posting)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, posting)
			if len(merged) == aggregator.limit {
				return merged
			}
		}
	}
	return merged
}

func dedupeKey(posting Posting) string {
	if link := strings.TrimSpace(posting.URL); link != "" {
		return "url:" + strings.TrimRight(link, "/")
	}
	return "job:" + strings.ToLower(strings.TrimSpace(posting.Title)) + "|" + strings.ToLower(strings.TrimSpace(posting.Company))
}
