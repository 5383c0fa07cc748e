package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/docket/internal/common"
	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

// Loader turns a document on disk into its line sequence.
type Loader interface {
	Load(ctx context.Context, path string) (lines.Sequence, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (lines.Sequence, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, path string) (lines.Sequence, error) {
	return f(ctx, path)
}

// Result is the outcome for one document of a batch.
type Result struct {
	Metadata model.DocumentMetadata
	Err      error
	Path     string
	Lines    int
}

// Unclassified reports whether no bank recognised the document.
func (r Result) Unclassified() bool {
	return r.Err == nil && r.Metadata.IsUnclassified()
}

// BatchOptions tunes ClassifyFiles.
type BatchOptions struct {
	// OnResult is called once per document as it completes, never concurrently.
	OnResult func(Result)
	// Workers bounds the documents processed at once. Zero means one per CPU.
	Workers int
	// Timeout bounds loading a single document. Zero means no limit.
	Timeout time.Duration
}

// ClassifyFiles loads and classifies every path with up to opts.Workers
// documents in flight. Failures are reported per document in Result.Err
// and never stop the batch; results keep the order of paths. The returned
// error is non-nil only when ctx is cancelled, in which case documents not
// yet started carry the context error.
func (e *Engine) ClassifyFiles(ctx context.Context, paths []string, loader Loader, opts BatchOptions) ([]Result, error) {
	if len(paths) == 0 {
		return nil, common.ErrNoDocuments
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return err
			}

			res := e.classifyFile(gctx, path, loader, opts.Timeout)
			results[i] = res

			if opts.OnResult != nil {
				mu.Lock()
				opts.OnResult(res)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	return results, nil
}

func (e *Engine) classifyFile(ctx context.Context, path string, loader Loader, timeout time.Duration) Result {
	res := Result{Path: path}

	loadCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	seq, err := loader.Load(loadCtx, path)
	if err != nil {
		res.Err = fmt.Errorf("load %s: %w", path, err)
		common.LogDebug("Failed to load document", common.Fields{"path": path, "error": err.Error()})
		return res
	}
	res.Lines = len(seq)

	res.Metadata, res.Err = e.Classify(path, seq)
	return res
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total        int
	Classified   int
	Unclassified int
	Failed       int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Unclassified():
			s.Unclassified++
		default:
			s.Classified++
		}
	}
	return s
}
