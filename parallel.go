package vcf2table

import (
	"runtime"
	"sync"

	"github.com/biocodices/vcf2table/vcf"
)

// workItem is one data line tagged with its input sequence number.
type workItem struct {
	seq     int
	line    string
	lineNum int
}

// workResult is the decode outcome for one line.
type workResult struct {
	seq int
	rec *vcf.Record
	err error
}

// parallelDecode decodes work items with a pool of workers. Results arrive
// on the returned channel in completion order, not sequence order; use
// orderedCollect to consume them in input order. If workers is 0 or less,
// runtime.NumCPU() is used.
func parallelDecode(items <-chan workItem, dec *vcf.Decoder, workers int) <-chan workResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan workResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rec, err := dec.Decode(item.line, item.lineNum)
				results <- workResult{seq: item.seq, rec: rec, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// orderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence number
// arrives. On the first error from fn it drains the channel so the workers
// can finish, then returns that error.
func orderedCollect(results <-chan workResult, fn func(workResult) error) error {
	pending := make(map[int]workResult)
	nextSeq := 0

	for res := range results {
		pending[res.seq] = res

		for {
			next, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++

			if err := fn(next); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
