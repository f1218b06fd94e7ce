// Package recommend implements the recommendation generators of spec.md
// §4.7 (C7): one generator per classify.Profile, each producing
// pattern-driven and issue-count-driven recommendation sets. Recommendation
// shape is grounded on
// other_examples/a11b0c7a_KubeHeal-openshift-coordination-engine…recommendations.go.go's
// Recommendation struct (severity/confidence/evidence/actions), adapted
// from runtime remediation to static code recommendations.
package recommend

import (
	"time"

	"github.com/githubnext/coderadar/internal/model"
)

// Context is the pattern-driven generator input: the repository and its
// detected patterns. The classified profile is not carried here; it selects
// the generator through ForProfile.
type Context struct {
	Repository model.Repository
	Patterns   []model.Pattern
}

// ScanCounts is the issue-count-driven generator input, per spec.md §4.7.
type ScanCounts struct {
	SecurityCount   int
	TypeSafetyCount int
	PerformanceCount int
}

func (c ScanCounts) isZero() bool {
	return c.SecurityCount == 0 && c.TypeSafetyCount == 0 && c.PerformanceCount == 0
}

// Generator is the interface every profile-specific recommendation
// generator implements.
type Generator interface {
	Generate(ctx Context) []model.Recommendation
	GenerateFromScan(ctx Context, counts ScanCounts) []model.Recommendation
}

func newRecommendation(repoID, title, description string, recType model.RecommendationType, priority model.Priority) model.Recommendation {
	now := time.Now().UTC()
	return model.Recommendation{
		RepositoryID:       repoID,
		Title:              title,
		Description:        description,
		RecommendationType: recType,
		Priority:           priority,
		Status:             model.StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
