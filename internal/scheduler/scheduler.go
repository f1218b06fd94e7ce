// Package scheduler implements the periodic pass of spec.md §4.11 (C11):
// an immediate first pass, then a steady interval, running each due
// repository through the pipeline strictly sequentially. The ticker +
// select loop follows
// emergent-company-specmcp/internal/scheduler/scheduler.go's Start/Stop,
// adapted from one ticker per named job to one ticker over a whole pass.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/githubnext/coderadar/internal/model"
	"github.com/githubnext/coderadar/internal/pipeline"
	"github.com/githubnext/coderadar/internal/store"
	"github.com/githubnext/coderadar/pkg/logger"
	"github.com/githubnext/coderadar/pkg/sliceutil"
)

var log = logger.New("scheduler:pass")

// interRepoDelay is the API-politeness sleep between due repositories,
// per spec.md §4.11 step 5.
const interRepoDelay = 2000 * time.Millisecond

// stalenessWindow ages active recommendations older than this at the end
// of every pass, per spec.md §4.11 step 6.
const stalenessWindow = 30 * 24 * time.Hour

// Priority intervals, per spec.md §4.11 step 2.
const (
	highInterval   = 4 * time.Hour
	mediumInterval = 12 * time.Hour
	lowInterval    = 24 * time.Hour
)

// Scheduler runs periodic passes over all analyzed repositories.
type Scheduler struct {
	pipeline *pipeline.Pipeline
	store    *store.Store

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New builds a Scheduler over p and st.
func New(p *pipeline.Pipeline, st *store.Store) *Scheduler {
	return &Scheduler{pipeline: p, store: st}
}

// Start runs one pass immediately, then one every interval, until Stop is
// called or ctx is cancelled. It blocks the caller only long enough to
// launch the background loop; the loop itself runs in its own goroutine.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		s.runPass(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runPass(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the timer and marks the scheduler as not running. An
// in-flight pass is allowed to finish, per spec.md §4.11.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop := s.stop
	done := s.done
	s.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the scheduler's loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// duePriority computes a repository's scan priority and matching
// interval, per spec.md §4.11 step 2.
func duePriority(repo model.Repository) (model.Priority, time.Duration) {
	if repo.PatternsCount > 100 || sliceutil.Contains(repo.Categories, "react") {
		return model.PriorityHigh, highInterval
	}
	if repo.PatternsCount < 20 {
		return model.PriorityLow, lowInterval
	}
	return model.PriorityMedium, mediumInterval
}

// dueList filters and orders repositories whose priority interval has
// elapsed since last_analyzed, per spec.md §4.11 steps 1-3. The due subset
// is stably sorted by last_analyzed ascending, never-analyzed repositories
// first, whatever order the input arrives in.
func dueList(repos []model.Repository, now time.Time) []model.Repository {
	var due []model.Repository
	for _, repo := range repos {
		if repo.LastAnalyzed == nil {
			due = append(due, repo)
			continue
		}
		_, interval := duePriority(repo)
		if now.Sub(*repo.LastAnalyzed) >= interval {
			due = append(due, repo)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		ti, tj := due[i].LastAnalyzed, due[j].LastAnalyzed
		if ti == nil || tj == nil {
			return ti == nil && tj != nil
		}
		return ti.Before(*tj)
	})
	return due
}

// runPass executes one full scheduled pass: steps 1-6 of spec.md §4.11.
func (s *Scheduler) runPass(ctx context.Context) {
	repos, err := s.store.AnalyzedRepositoriesByLastAnalyzed()
	if err != nil {
		log.Printf("WARN listing analyzed repositories: %v", err)
		return
	}

	due := dueList(repos, time.Now().UTC())
	log.Printf("scheduled pass: %d analyzed, %d due", len(repos), len(due))

	for i, repo := range due {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.runOne(ctx, repo)

		if i < len(due)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(interRepoDelay):
			}
		}
	}

	if n, err := s.store.AgeStaleRecommendations(time.Now().UTC().Add(-stalenessWindow)); err != nil {
		log.Printf("WARN aging stale recommendations: %v", err)
	} else if n > 0 {
		log.Printf("aged %d stale recommendations", n)
	}

	if n, err := s.store.CleanupDuplicateRecommendations(); err != nil {
		log.Printf("WARN cleaning up duplicate recommendations: %v", err)
	} else if n > 0 {
		log.Printf("cleaned up %d duplicate recommendations", n)
	}
}

// runOne runs the pipeline for a single repository and marks it failed on
// any error from Run. No error is treated as inconclusive, so a failed run
// never leaves analysis_status unchanged.
func (s *Scheduler) runOne(ctx context.Context, repo model.Repository) {
	outcome, err := s.pipeline.Run(ctx, repo)
	if err != nil {
		log.Printf("WARN repository %s scan aborted: %v", repo.FullName, err)
		repo.AnalysisStatus = model.AnalysisFailed
		if upsertErr := s.store.UpsertRepository(repo); upsertErr != nil {
			log.Printf("WARN marking repository %s failed: %v", repo.FullName, upsertErr)
		}
		return
	}
	log.Printf("repository %s: %d patterns, %d new recommendations", repo.FullName, outcome.PatternsFound, outcome.RecommendationsNew)
}

// ScanRepositoryManually runs the pipeline for one repository immediately,
// bypassing the due list, per spec.md §4.11's manual trigger.
func (s *Scheduler) ScanRepositoryManually(ctx context.Context, repo model.Repository) (pipeline.Outcome, error) {
	return s.pipeline.Run(ctx, repo)
}
