// Package scan implements the file pipeline of spec.md §4.4 (C4): fetch,
// filter, batch, and fan out over a repository's tree, running the
// detectors (C5) over each file's text. Bounded concurrency follows the
// sourcegraph/conc/pool idiom in
// githubnext-gh-aw/pkg/cli/logs.go's downloadRunArtifactsConcurrent.
package scan

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/githubnext/coderadar/internal/detect"
	"github.com/githubnext/coderadar/internal/forge"
	"github.com/githubnext/coderadar/internal/governor"
	"github.com/githubnext/coderadar/internal/model"
	"github.com/githubnext/coderadar/internal/retry"
	"github.com/githubnext/coderadar/pkg/logger"
)

var log = logger.New("scan:pipeline")

// Result is the aggregated output of one repository scan, per spec.md
// §4.4 step 7.
type Result struct {
	Patterns      []model.Pattern
	Security      []model.SecurityFinding
	TypeSafety    []model.TypeSafetyFinding
	Performance   []model.PerformanceFinding
	Successful    bool
	ErrorMessage  string
	FallbackUsed  bool
	FilesScanned  int
	// Files holds each scanned file's raw text, keyed by repository path.
	// C8 re-derives evidence from these instead of re-fetching from the
	// forge, so validation never spends a second rate-limit budget on a
	// repository this process just scanned.
	Files map[string]string
}

type fileOutcome struct {
	path    string
	text    string
	res     detect.Result
	skipped bool
}

// Scanner fetches and scans a repository's file tree.
type Scanner struct {
	forge    *forge.Client
	governor *governor.Governor
	cache    *fileCache
}

// New builds a Scanner over client and g.
func New(client *forge.Client, g *governor.Governor) *Scanner {
	return &Scanner{forge: client, governor: g, cache: newFileCache(defaultCacheCap, defaultCacheTTL)}
}

// Scan runs the full file pipeline against repo, per spec.md §4.4.
func (s *Scanner) Scan(ctx context.Context, repo model.Repository, ref string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("unexpected panic during scan, falling back to sequential: %v", r)
			res, err = s.scanSequential(ctx, repo, ref)
			res.FallbackUsed = true
		}
	}()

	entries, err := s.forge.GetTree(ctx, repo.Owner(), repo.RepoName(), ref)
	if err != nil {
		return Result{Successful: false, ErrorMessage: err.Error()}, err
	}

	files := filterCodeFiles(entries)
	limit := s.governor.FileLimit(s.forge.Authenticated())
	if len(files) > limit {
		files = files[:limit]
	}

	batchSize := s.governor.OptimalBatchSize()
	batchDelay := time.Duration(s.governor.BatchDelayMS()) * time.Millisecond

	var agg Result
	agg.Successful = true
	agg.Files = make(map[string]string, len(files))

	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[start:end]

		batchResults, scanErr := s.scanBatch(ctx, repo, ref, batch)
		if scanErr != nil {
			return Result{Successful: false, ErrorMessage: scanErr.Error()}, scanErr
		}
		for _, o := range batchResults {
			if o.skipped {
				continue
			}
			agg.Patterns = append(agg.Patterns, o.res.Patterns...)
			agg.Security = append(agg.Security, o.res.Security...)
			agg.TypeSafety = append(agg.TypeSafety, o.res.TypeSafety...)
			agg.Performance = append(agg.Performance, o.res.Performance...)
			agg.Files[o.path] = o.text
		}
		agg.FilesScanned += len(batch)

		if memoryExceeded(defaultMemoryThresholdBytes) {
			log.Printf("WARN memory threshold exceeded, halving next batch size")
			batchSize = halveBatchSize(batchSize)
		}

		if end < len(files) {
			select {
			case <-ctx.Done():
				return Result{Successful: false, ErrorMessage: ctx.Err().Error()}, ctx.Err()
			case <-time.After(batchDelay):
			}
		}
	}

	return agg, nil
}

// scanBatch fans out over batch with a bounded worker pool sized to the
// batch itself (the batch size already reflects the governor's optimal
// concurrency), collecting one detect.Result per file.
func (s *Scanner) scanBatch(ctx context.Context, repo model.Repository, ref string, batch []forge.FileEntry) ([]fileOutcome, error) {
	p := pool.NewWithResults[fileOutcome]().WithContext(ctx).WithMaxGoroutines(len(batch))

	for _, entry := range batch {
		entry := entry
		p.Go(func(ctx context.Context) (fileOutcome, error) {
			if err := s.governor.CheckAndWait(ctx); err != nil {
				return fileOutcome{}, err
			}

			text, cached := s.cache.get(repo.FullName, entry.Path, entry.SHA)
			if !cached {
				var fetchErr error
				retryErr := retry.Do(ctx, s.governor, "fetch:"+entry.Path, retry.DefaultMaxAttempts, func(ctx context.Context) error {
					t, e := s.forge.GetBlob(ctx, repo.Owner(), repo.RepoName(), ref, entry.Path)
					text, fetchErr = t, e
					return e
				})
				if retryErr != nil {
					// A single unfetchable file must not abort the whole
					// repository scan (spec.md §4.2, §4.4, §7): log and
					// skip it, batch aggregation continues.
					log.Printf("WARN skipping %s after retry exhaustion: %v", entry.Path, retryErr)
					return fileOutcome{skipped: true}, nil
				}
				if fetchErr == nil {
					s.cache.put(repo.FullName, entry.Path, entry.SHA, text)
				}
			}

			dctx := detect.RepositoryContext{RepositoryID: repo.ID, Framework: repo.Framework}
			return fileOutcome{path: entry.Path, text: text, res: detectChunked(text, entry.Path, dctx)}, nil
		})
	}

	return p.Wait()
}

// scanSequential is the fallback path of spec.md §4.4: no pool, no cache
// writes raced against concurrent batches, one file at a time.
func (s *Scanner) scanSequential(ctx context.Context, repo model.Repository, ref string) (Result, error) {
	entries, err := s.forge.GetTree(ctx, repo.Owner(), repo.RepoName(), ref)
	if err != nil {
		return Result{Successful: false, ErrorMessage: err.Error()}, err
	}
	files := filterCodeFiles(entries)
	limit := s.governor.FileLimit(s.forge.Authenticated())
	if len(files) > limit {
		files = files[:limit]
	}

	var agg Result
	agg.Successful = true
	agg.Files = make(map[string]string, len(files))
	dctx := detect.RepositoryContext{RepositoryID: repo.ID, Framework: repo.Framework}

	for _, entry := range files {
		if err := s.governor.CheckAndWait(ctx); err != nil {
			return Result{Successful: false, ErrorMessage: err.Error()}, err
		}
		text, err := s.forge.GetBlob(ctx, repo.Owner(), repo.RepoName(), ref, entry.Path)
		if err != nil {
			// A per-file fetch error never aborts the repository scan
			// (spec.md §4.2, §4.4, §7): only the initial tree fetch and a
			// rate-limit refresh may do that.
			log.Printf("WARN skipping %s after fetch error: %v", entry.Path, err)
			continue
		}
		res := detectChunked(text, entry.Path, dctx)
		agg.Patterns = append(agg.Patterns, res.Patterns...)
		agg.Security = append(agg.Security, res.Security...)
		agg.TypeSafety = append(agg.TypeSafety, res.TypeSafety...)
		agg.Performance = append(agg.Performance, res.Performance...)
		agg.Files[entry.Path] = text
		agg.FilesScanned++
	}

	return agg, nil
}
