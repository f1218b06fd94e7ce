package validate

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/githubnext/coderadar/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryErrorHandling, Categorize(model.Recommendation{Title: "Improve Error Handling"}))
	assert.Equal(t, CategorySecurity, Categorize(model.Recommendation{Title: "Fix vulnerability"}))
	assert.Equal(t, CategoryTesting, Categorize(model.Recommendation{Description: "add tests"}))
	assert.Equal(t, CategoryGeneral, Categorize(model.Recommendation{Title: "Tidy imports"}))
}

func TestValidateRejectsFalseZeroPercentClaim(t *testing.T) {
	corpus := fstest.MapFS{
		"src/app.ts": &fstest.MapFile{Data: []byte(`
function handleRequest(req, res, next) {
  try {
    doWork();
  } catch (err) {
    next(err);
  }
}

class ValidationError extends Error {}
`)},
	}

	rec := model.Recommendation{
		Title:       "Improve Error Handling",
		Description: "Only 0% of functions handle errors",
	}

	v, err := Validate(context.Background(), rec, corpus, nil)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, ActionReject, v.RecommendationAction)
	assert.Equal(t, 0.1, v.Confidence)
	assert.NotEmpty(t, v.ConflictingEvidence)
}

func TestValidateApprovesAccurateZeroPercentClaim(t *testing.T) {
	corpus := fstest.MapFS{
		"src/app.ts": &fstest.MapFile{Data: []byte(`
function handleRequest(req, res) {
  doWork();
}
`)},
	}
	rec := model.Recommendation{
		Title:       "Improve Error Handling",
		Description: "Only 0% of functions handle errors",
	}
	v, err := Validate(context.Background(), rec, corpus, nil)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, ActionApprove, v.RecommendationAction)
}

func TestValidateNonErrorHandlingCategorySkipsCoverage(t *testing.T) {
	corpus := fstest.MapFS{}
	rec := model.Recommendation{Title: "Add caching layer"}
	v, err := Validate(context.Background(), rec, corpus, nil)
	require.NoError(t, err)
	assert.Nil(t, v.ActualCoverage)
	assert.True(t, v.Valid)
}

func TestValidateAppliesHighestConfidencePreventionRule(t *testing.T) {
	corpus := fstest.MapFS{}
	rec := model.Recommendation{Title: "Add caching layer", Tags: []string{"caching"}}
	rules := []model.PreventionRule{
		{Name: "low", Confidence: 0.3, Action: model.ActionModify, Condition: model.Condition{Kind: model.ConditionSophisticatedPatternIncludes, PatternName: "caching"}, Description: "consider modifying"},
		{Name: "high", Confidence: 0.95, Action: model.ActionReject, Condition: model.Condition{Kind: model.ConditionSophisticatedPatternIncludes, PatternName: "caching"}, Description: "known false positive"},
	}
	v, err := Validate(context.Background(), rec, corpus, rules)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, ActionReject, v.RecommendationAction)
	assert.Equal(t, 0.95, v.Confidence)
}
