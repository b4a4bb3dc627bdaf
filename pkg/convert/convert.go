package convert

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skoglund/voc2record/pkg/labelmap"
	"github.com/skoglund/voc2record/pkg/tfrecord"
	"github.com/skoglund/voc2record/pkg/voc"
)

// Run executes one conversion: validate paths, load the label map, pair
// the dataset directory, and write one TFRecord per pair to the output.
//
// Pairs that fail to convert (bad XML, wrong image format, unknown label,
// unreadable input) are skipped and reported in the summary; the run only
// fails on precondition violations, label map problems, or output-stream
// errors. Cancelling ctx abandons remaining pairs; whatever was written is
// flushed before Run returns.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if err := ValidatePaths(cfg); err != nil {
		return nil, err
	}

	labels, err := labelmap.ParseFile(cfg.LabelMapPath)
	if err != nil {
		return nil, err
	}

	pairs, report, err := PairFiles(cfg.DatasetDir)
	if err != nil {
		return nil, fmt.Errorf("scanning dataset directory: %w", err)
	}

	sum := newSummary(report, len(pairs))
	sum.reportPairing(cfg)

	if err := prepareOutput(cfg); err != nil {
		return nil, err
	}
	out, err := os.OpenFile(cfg.OutputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	w := tfrecord.NewWriter(out)

	convErr := convertAll(ctx, pairs, labels, cfg, w, sum)

	// Flush and close unconditionally so a buffered tail is never lost,
	// then surface the first failure.
	closeErr := w.Close()
	if convErr != nil {
		return sum, convErr
	}
	if closeErr != nil {
		return sum, fmt.Errorf("closing output file: %w", closeErr)
	}
	return sum, nil
}

// convertAll writes one record per pair, in input-pair order.
func convertAll(ctx context.Context, pairs []Pair, labels *labelmap.LabelMap, cfg Config, w *tfrecord.Writer, sum *Summary) error {
	if cfg.Workers <= 1 {
		for _, p := range pairs {
			if err := ctx.Err(); err != nil {
				return err
			}
			payload, stats, err := convertPair(p, labels, cfg)
			if err != nil {
				sum.recordSkip(cfg, p, err)
				continue
			}
			if err := w.WriteRecord(payload); err != nil {
				return fmt.Errorf("writing record for %s: %w", p.Image, err)
			}
			sum.recordWritten(cfg, p, stats)
		}
		return nil
	}
	return convertParallel(ctx, pairs, labels, cfg, w, sum)
}

type pairResult struct {
	index   int
	payload []byte
	stats   RecordStats
	err     error
}

// convertParallel builds records on a worker pool while a single writer
// owns the output stream. Completions are reordered by pair index before
// writing, so the output is byte-identical to a sequential run.
func convertParallel(ctx context.Context, pairs []Pair, labels *labelmap.LabelMap, cfg Config, w *tfrecord.Writer, sum *Summary) error {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan pairResult, cfg.Workers)

	g.Go(func() error {
		defer close(jobs)
		for i := range pairs {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for idx := range jobs {
				payload, stats, err := convertPair(pairs[idx], labels, cfg)
				select {
				case results <- pairResult{index: idx, payload: payload, stats: stats, err: err}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	g.Go(func() error {
		next := 0
		pending := make(map[int]pairResult)
		for r := range results {
			pending[r.index] = r
			for {
				rr, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				p := pairs[rr.index]
				if rr.err != nil {
					sum.recordSkip(cfg, p, rr.err)
					continue
				}
				if err := w.WriteRecord(rr.payload); err != nil {
					return fmt.Errorf("writing record for %s: %w", p.Image, err)
				}
				sum.recordWritten(cfg, p, rr.stats)
			}
		}
		return nil
	})

	return g.Wait()
}

// convertPair reads one pair from disk and serializes its record.
func convertPair(p Pair, labels *labelmap.LabelMap, cfg Config) ([]byte, RecordStats, error) {
	ann, err := voc.ParseFile(p.Annotation)
	if err != nil {
		return nil, RecordStats{}, err
	}
	imageBytes, err := os.ReadFile(p.Image)
	if err != nil {
		return nil, RecordStats{}, err
	}
	ex, stats, err := BuildRecord(p.Image, ann, imageBytes, labels, cfg.SkipDifficult)
	if err != nil {
		return nil, stats, err
	}
	return ex.Marshal(), stats, nil
}
