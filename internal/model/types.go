// Package model holds the entities shared across the scan-and-recommend
// pipeline: repositories, patterns, findings, recommendations, and the
// training-case records the validator feeds back into prevention rules.
package model

import (
	"time"

	"github.com/githubnext/coderadar/pkg/repoutil"
)

// AnalysisStatus is the closed set of Repository lifecycle states.
type AnalysisStatus string

const (
	AnalysisPending  AnalysisStatus = "pending"
	AnalysisAnalyzed AnalysisStatus = "analyzed"
	AnalysisFailed   AnalysisStatus = "failed"
)

// Repository is a scanned code-forge repository and its derived profile.
type Repository struct {
	ID                string
	Name              string
	FullName          string // "owner/repo"
	Organization       string
	Description       string
	DefaultBranch     string
	PrimaryLanguage   string
	TechStackProfile  string
	Framework         string
	Categories        []string
	Branches          []string
	PatternsCount     int
	AnalysisStatus    AnalysisStatus
	LastAnalyzed      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Metadata          map[string]any
}

// Owner splits FullName into owner/repo. Returns empty strings if malformed.
func (r Repository) Owner() string {
	owner, _, err := repoutil.SplitRepoSlug(r.FullName)
	if err != nil {
		return ""
	}
	return owner
}

// RepoName returns the repo part of FullName.
func (r Repository) RepoName() string {
	_, repo, err := repoutil.SplitRepoSlug(r.FullName)
	if err != nil {
		return r.FullName
	}
	return repo
}

// Pattern is a detected, structurally meaningful code fragment.
type Pattern struct {
	ID            string
	RepositoryID  string
	PatternType   string
	Category      string
	Subcategory   string
	Content       string
	ContentHash   string
	FilePath      string
	LineStart     int
	LineEnd       int
	Language      string
	Framework     string
	Confidence    float64
	Tags          []string
	ContextBefore string
	ContextAfter  string
	Metadata      map[string]any
}

// DedupKey is a pattern's logical identity. The chunked detector in
// internal/scan combines it with the start line to drop matches found twice
// in overlapping chunks; the store does not use it.
func (p Pattern) DedupKey() string {
	return p.RepositoryID + "\x00" + p.ContentHash + "\x00" + p.FilePath + "\x00" + itoa(p.LineStart)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Severity is the closed severity enum used by security findings.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SecurityFinding is a transient issue surfaced by the detector.
type SecurityFinding struct {
	Type           string
	Severity       Severity
	Description    string
	FilePath       string
	LineNumber     int // 0 when not applicable
	Recommendation string
}

// TypeSafetyFinding is a transient type-safety issue.
type TypeSafetyFinding struct {
	Type        string
	Description string
	FilePath    string
	LineNumber  int
}

// PerformanceFinding is a transient performance issue.
type PerformanceFinding struct {
	Type        string
	Description string
	FilePath    string
	LineNumber  int // 0 when not applicable (e.g. memory_leak)
}

// RecommendationType is the closed recommendation-type enum.
type RecommendationType string

const (
	RecSecurity      RecommendationType = "security"
	RecArchitecture  RecommendationType = "architecture"
	RecPerformance   RecommendationType = "performance"
	RecBestPractices RecommendationType = "best_practices"
	RecPatternUsage  RecommendationType = "pattern_usage"
	RecMigration     RecommendationType = "migration"
	RecTypeSafety    RecommendationType = "type_safety"
)

// Priority is the closed recommendation priority enum.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// RecommendationStatus is the closed recommendation-status enum.
type RecommendationStatus string

const (
	StatusActive      RecommendationStatus = "active"
	StatusImplemented RecommendationStatus = "implemented"
	StatusDismissed   RecommendationStatus = "dismissed"
	StatusInProgress  RecommendationStatus = "in_progress"
	StatusOutdated    RecommendationStatus = "outdated"
)

// CodeExample is one before/after pair attached to a recommendation.
type CodeExample struct {
	Title       string
	Before      string
	After       string
	Language    string
	Explanation string
}

// ImplementationStep is one ordered step of a recommendation's rollout plan.
type ImplementationStep struct {
	StepNo      int
	Title       string
	Description string
	EstimatedTime string
}

// RecommendationMetrics is the optional projected-impact payload.
type RecommendationMetrics struct {
	TimeSaved        string
	BugsPrevented    int
	PerformanceGain  string
}

// Recommendation is a persisted, user-visible suggestion.
type Recommendation struct {
	ID                   string
	RepositoryID         string
	Title                string
	Description          string
	RecommendationType   RecommendationType
	Priority             Priority
	ApplicablePatterns   []string
	CodeExamples         []CodeExample
	ImplementationSteps  []ImplementationStep
	EstimatedEffort      string
	Tags                 []string
	Status               RecommendationStatus
	Metrics              RecommendationMetrics
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Metadata             map[string]any
}

// CaseType is the closed training-case classification.
type CaseType string

const (
	CaseFalsePositive CaseType = "false_positive"
	CaseFalseNegative CaseType = "false_negative"
	CaseAccurate      CaseType = "accurate"
	CaseImprovement   CaseType = "improvement"
)

// TrainingCase is an append-only record of a validation outcome.
type TrainingCase struct {
	ID               string
	Timestamp        time.Time
	CaseType         CaseType
	Recommendation   Recommendation
	ActualAnalysis   map[string]any
	ValidationOutcome string
	Lessons          []string
	PreventionRules  []PreventionRule
}

// RuleAction is the closed action set a prevention rule can force.
type RuleAction string

const (
	ActionReject        RuleAction = "reject"
	ActionModify        RuleAction = "modify"
	ActionFlagForReview RuleAction = "flag_for_review"
)

// PreventionRule is a predicate over (recommendation, analysis) that forces
// an action on future candidates once learned from a rejection.
type PreventionRule struct {
	Name        string
	Condition   Condition
	Action      RuleAction
	Confidence  float64
	Description string
}

// ConditionKind closes the set of prevention-rule condition shapes.
type ConditionKind string

const (
	ConditionTitleAndDescriptionContains ConditionKind = "title_description_contains"
	ConditionSophisticatedPatternIncludes ConditionKind = "sophisticated_pattern_includes"
	ConditionCodebaseHasErrorSophistication ConditionKind = "codebase_has_error_sophistication"
)

// Condition is the tagged predicate shape spec.md §4.9 closes: exactly
// three recognized kinds, never a free-form expression string.
type Condition struct {
	Kind           ConditionKind
	TitleContains  string
	DescContains   string
	PatternName    string
}

// RateLimitState is the in-memory, never-persisted governor snapshot.
type RateLimitState struct {
	Remaining int
	ResetAt   time.Time
}
