// Package pipeline wires the per-repository stages (C3-C10) into the
// single run spec.md §4.11 step 4 calls "the full pipeline": fetch and
// detect (C4/C5), classify (C6), generate (C7), validate (C8), record
// training feedback (C9), and persist (C10).
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/githubnext/coderadar/internal/classify"
	"github.com/githubnext/coderadar/internal/forge"
	"github.com/githubnext/coderadar/internal/governor"
	"github.com/githubnext/coderadar/internal/model"
	"github.com/githubnext/coderadar/internal/recommend"
	"github.com/githubnext/coderadar/internal/scan"
	"github.com/githubnext/coderadar/internal/store"
	"github.com/githubnext/coderadar/internal/training"
	"github.com/githubnext/coderadar/internal/validate"
	"github.com/githubnext/coderadar/pkg/logger"
)

var log = logger.New("pipeline:run")

// Pipeline holds the constructed stage dependencies a Run needs.
type Pipeline struct {
	Scanner  *scan.Scanner
	Governor *governor.Governor
	Store    *store.Store
	Training *training.Store
}

// New wires a Pipeline from its stage dependencies.
func New(client *forge.Client, g *governor.Governor, st *store.Store, tr *training.Store) *Pipeline {
	return &Pipeline{Scanner: scan.New(client, g), Governor: g, Store: st, Training: tr}
}

// Outcome summarizes one repository run for the caller (scheduler or CLI).
type Outcome struct {
	RepositoryID      string
	PatternsFound     int
	RecommendationsNew int
	Failed            bool
	FailureReason     string
}

// Run executes C3-C10 for a single repository and persists the result.
// On any stage failure it returns a non-nil error and an Outcome with
// Failed=true; the caller decides whether to set analysis_status=failed
// (spec.md §4.12 reserves that decision for the scheduler boundary).
func (p *Pipeline) Run(ctx context.Context, repo model.Repository) (Outcome, error) {
	ref := repo.DefaultBranch
	if ref == "" {
		ref = "main"
	}

	res, err := p.Scanner.Scan(ctx, repo, ref)
	if err != nil {
		return Outcome{RepositoryID: repo.ID, Failed: true, FailureReason: err.Error()}, err
	}

	profile := classify.Classify(repo.Categories, repo.PrimaryLanguage, repo.Framework)
	repo.TechStackProfile = string(profile.Profile)

	gen := recommend.ForProfile(profile.Profile)
	recs := gen.Generate(recommend.Context{Repository: repo, Patterns: res.Patterns})
	recs = append(recs, gen.GenerateFromScan(recommend.Context{Repository: repo}, recommend.ScanCounts{
		SecurityCount:    len(res.Security),
		TypeSafetyCount:  len(res.TypeSafety),
		PerformanceCount: len(res.Performance),
	})...)

	corpus := newMemCorpus(res.Files)
	rules, err := p.Training.ActiveRules()
	if err != nil {
		log.Printf("WARN loading prevention rules for %s: %v", repo.FullName, err)
		rules = nil
	}

	approved := make([]model.Recommendation, 0, len(recs))
	for _, rec := range recs {
		v, verr := validate.Validate(ctx, rec, corpus, rules)
		if verr != nil {
			log.Printf("WARN validating recommendation %q for %s: %v (keeping unvalidated)", rec.Title, repo.FullName, verr)
			if rec.Metadata == nil {
				rec.Metadata = map[string]any{}
			}
			rec.Metadata["validation_status"] = "unvalidated"
			rec.Metadata["validation_error"] = verr.Error()
			approved = append(approved, rec)
			continue
		}
		switch v.RecommendationAction {
		case validate.ActionReject:
			if recordErr := p.recordRejection(rec, v); recordErr != nil {
				log.Printf("WARN recording rejected recommendation %q: %v", rec.Title, recordErr)
			}
		default:
			approved = append(approved, rec)
		}
	}

	recommend.Order(approved)

	if err := p.Store.ClearRepositoryRecommendations(repo.ID); err != nil {
		return Outcome{RepositoryID: repo.ID, Failed: true, FailureReason: err.Error()}, err
	}
	inserted, err := p.Store.InsertRecommendationsUnique(approved)
	if err != nil {
		return Outcome{RepositoryID: repo.ID, Failed: true, FailureReason: err.Error()}, err
	}
	if err := p.Store.ReplacePatterns(repo.ID, res.Patterns); err != nil {
		return Outcome{RepositoryID: repo.ID, Failed: true, FailureReason: err.Error()}, err
	}

	now := time.Now().UTC()
	repo.PatternsCount = len(res.Patterns)
	repo.AnalysisStatus = model.AnalysisAnalyzed
	repo.LastAnalyzed = &now
	if err := p.Store.UpsertRepository(repo); err != nil {
		return Outcome{RepositoryID: repo.ID, Failed: true, FailureReason: err.Error()}, err
	}

	return Outcome{RepositoryID: repo.ID, PatternsFound: len(res.Patterns), RecommendationsNew: inserted}, nil
}

// recordRejection builds the training-case record C9 expects from a
// rejected validation and appends it to the training store.
func (p *Pipeline) recordRejection(rec model.Recommendation, v validate.Validation) error {
	return p.Training.RecordRejection(model.TrainingCase{
		ID:                fmt.Sprintf("tc-%d-%s", time.Now().UTC().UnixNano(), rec.RepositoryID),
		Timestamp:         time.Now().UTC(),
		CaseType:          model.CaseFalsePositive,
		Recommendation:    rec,
		ValidationOutcome: string(v.RecommendationAction),
		Lessons:           v.ConflictingEvidence,
	})
}
