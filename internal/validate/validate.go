// Package validate implements the quality validator of spec.md §4.8 (C8):
// it re-derives the evidence a recommendation claims from the repository's
// actual source text and rejects recommendations that conflict with it.
// The weighted-indicator scoring (indicator -> points, summed and capped
// at 100) is grounded on
// other_examples/f70843eb_qlp-hq-QLP…static_validator.go.go's
// validateCompliance, adapted from an LLM compliance score to a static
// error-handling coverage estimate.
package validate

import (
	"context"
	"io/fs"
	"regexp"
	"strings"

	"github.com/githubnext/coderadar/internal/detect"
	"github.com/githubnext/coderadar/internal/model"
	"github.com/githubnext/coderadar/internal/training"
)

// Category is the closed recommendation-category set validation buckets
// recommendations into by title/description keywords.
type Category string

const (
	CategoryErrorHandling Category = "error_handling"
	CategoryTesting       Category = "testing"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryGeneral       Category = "general"
)

// Categorize buckets a recommendation by keyword match over title+description.
func Categorize(rec model.Recommendation) Category {
	text := strings.ToLower(rec.Title + " " + rec.Description)
	switch {
	case strings.Contains(text, "error handling") || strings.Contains(text, "error-handling"):
		return CategoryErrorHandling
	case strings.Contains(text, "test"):
		return CategoryTesting
	case strings.Contains(text, "security") || strings.Contains(text, "vulnerab"):
		return CategorySecurity
	case strings.Contains(text, "performance"):
		return CategoryPerformance
	default:
		return CategoryGeneral
	}
}

// CodeCorpus is a minimal read/walk handle over the repository's checked
// out (or cached) source tree; satisfied by the pipeline's in-memory corpus
// of scanned files in production and a fake in-memory fs.FS in tests.
type CodeCorpus interface {
	fs.FS
}

// Action is the closed recommendation_action enum.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionModify  Action = "modify"
)

// Validation is the full output of validating one recommendation.
type Validation struct {
	Valid                  bool
	Confidence             float64
	ActualCoverage         *float64
	ConflictingEvidence    []string
	SupportingEvidence     []string
	RecommendationAction   Action
	ModificationSuggestions []string
}

// functionRegex approximates "function-like declaration" across the
// supported languages, reusing the same shape detect's rules use.
var functionRegex = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:async\s+)?function\s+\w+\s*\(|^\s*(?:public\s+|private\s+|static\s+)*(?:async\s+)?def\s+\w+\s*\(|^\s*func\s+(?:\([^)]*\)\s*)?\w+\s*\(`)

// errorHandlingIndicators is the closed, weighted pattern set spec.md
// §4.8 step 2 names.
var errorHandlingIndicators = []struct {
	name   string
	weight float64
	regex  *regexp.Regexp
}{
	{"try_catch", 1.0, regexp.MustCompile(`\btry\s*\{`)},
	{"custom_error_class", 1.5, regexp.MustCompile(`\bclass\s+\w*Error\b`)},
	{"async_error_handling", 1.2, regexp.MustCompile(`\.catch\s*\(|catch\s*\(\s*\w*\s*\)\s*\{[^}]*await`)},
	{"error_middleware", 2.0, regexp.MustCompile(`\(err,\s*req,\s*res,\s*next\)|errorHandler\s*\(`)},
	{"db_error_wrapper", 1.5, regexp.MustCompile(`\bwrapDBError\b|\bDatabaseError\b`)},
}

// sophisticatedIndicators is the closed "sophisticated indicator" set the
// rejection rule in step 3 checks for.
var sophisticatedIndicators = []string{"error_middleware", "custom_error_class", "async_error_handling"}

type fileEvidence struct {
	file            string
	functionCount   int
	weightedCount   float64
	matchedIndicators map[string]bool
}

// analyzeErrorHandling walks corpus (same filter C4 applies) and computes
// actual_coverage plus the supporting evidence list spec.md §4.8 step 2
// requires.
func analyzeErrorHandling(corpus CodeCorpus) (coverage float64, hasSophisticated bool, evidence []string, err error) {
	var totalFunctions int
	var totalWeighted float64

	walkErr := fs.WalkDir(corpus, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if detect.IsExcludedPath(path) {
				return fs.SkipDir
			}
			return nil
		}
		if !detect.IsCodeFile(path) || detect.IsExcludedPath(path) {
			return nil
		}
		data, readErr := fs.ReadFile(corpus, path)
		if readErr != nil {
			return nil // unreadable file does not abort the walk
		}
		text := string(data)

		fe := fileEvidence{file: path, matchedIndicators: map[string]bool{}}
		fe.functionCount = len(functionRegex.FindAllStringIndex(text, -1))
		for _, ind := range errorHandlingIndicators {
			n := len(ind.regex.FindAllStringIndex(text, -1))
			if n > 0 {
				fe.weightedCount += float64(n) * ind.weight
				fe.matchedIndicators[ind.name] = true
				evidence = append(evidence, ind.name+" in "+path)
			}
		}

		totalFunctions += fe.functionCount
		totalWeighted += fe.weightedCount
		for name := range fe.matchedIndicators {
			for _, s := range sophisticatedIndicators {
				if name == s {
					hasSophisticated = true
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		return 0, false, nil, walkErr
	}

	if totalFunctions == 0 {
		return 0, hasSophisticated, evidence, nil
	}
	w := totalWeighted
	if w > float64(totalFunctions) {
		w = float64(totalFunctions)
	}
	coverage = w / float64(totalFunctions) * 100
	return coverage, hasSophisticated, evidence, nil
}

func mentionsZeroPercent(description string) bool {
	d := strings.ToLower(description)
	return strings.Contains(d, "0%") || strings.Contains(d, "only 0%")
}

// Validate runs the full C8 algorithm against rec, re-deriving evidence
// from corpus and applying prevention rules from ps. If corpus access
// fails, the recommendation is not rejected: callers should tag
// metadata.validation_status = "unvalidated" on the returned error per
// spec.md §4.8.
func Validate(ctx context.Context, rec model.Recommendation, corpus CodeCorpus, rules []model.PreventionRule) (Validation, error) {
	category := Categorize(rec)

	v := Validation{Valid: true, Confidence: 0.7, RecommendationAction: ActionApprove}

	if category == CategoryErrorHandling {
		coverage, hasSophisticated, evidence, err := analyzeErrorHandling(corpus)
		if err != nil {
			return Validation{}, err
		}
		v.ActualCoverage = &coverage
		v.SupportingEvidence = evidence

		if strings.Contains(rec.Title, "Error Handling") && mentionsZeroPercent(rec.Description) &&
			(coverage > 50 || hasSophisticated) {
			v.Valid = false
			v.Confidence = 0.1
			v.RecommendationAction = ActionReject
			v.ConflictingEvidence = []string{
				"recommendation claims near-zero error handling coverage but the codebase shows evidence of it",
			}
		}
	}

	applyPreventionRules(&v, rec, category, v.ActualCoverage, rules)

	return v, nil
}

// applyPreventionRules marks v with the highest-confidence matching rule's
// action, per spec.md §4.8 step 4 ("highest-confidence matching rule wins").
func applyPreventionRules(v *Validation, rec model.Recommendation, category Category, coverage *float64, rules []model.PreventionRule) {
	var best *model.PreventionRule
	for i := range rules {
		r := &rules[i]
		if training.EvaluateCondition(r.Condition, rec, category == CategoryErrorHandling, coverage) {
			if best == nil || r.Confidence > best.Confidence {
				best = r
			}
		}
	}
	if best == nil {
		return
	}
	switch best.Action {
	case model.ActionReject:
		v.Valid = false
		v.RecommendationAction = ActionReject
		v.Confidence = best.Confidence
		v.ConflictingEvidence = append(v.ConflictingEvidence, best.Description)
	case model.ActionModify:
		v.RecommendationAction = ActionModify
		v.ModificationSuggestions = append(v.ModificationSuggestions, best.Description)
	case model.ActionFlagForReview:
		v.ModificationSuggestions = append(v.ModificationSuggestions, "flagged for review: "+best.Description)
	}
}
