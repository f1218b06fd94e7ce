package scheduler

import (
	"testing"
	"time"

	"github.com/githubnext/coderadar/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDuePriorityHighOnPatternCountOrReactCategory(t *testing.T) {
	p, interval := duePriority(model.Repository{PatternsCount: 150})
	assert.Equal(t, model.PriorityHigh, p)
	assert.Equal(t, highInterval, interval)

	p, interval = duePriority(model.Repository{PatternsCount: 5, Categories: []string{"react", "spa"}})
	assert.Equal(t, model.PriorityHigh, p)
	assert.Equal(t, highInterval, interval)
}

func TestDuePriorityLowOnSmallPatternCount(t *testing.T) {
	p, interval := duePriority(model.Repository{PatternsCount: 5})
	assert.Equal(t, model.PriorityLow, p)
	assert.Equal(t, lowInterval, interval)
}

func TestDuePriorityMediumOtherwise(t *testing.T) {
	p, interval := duePriority(model.Repository{PatternsCount: 50})
	assert.Equal(t, model.PriorityMedium, p)
	assert.Equal(t, mediumInterval, interval)
}

func TestDueListIncludesNeverAnalyzedAndElapsedRepos(t *testing.T) {
	now := time.Now().UTC()
	longAgo := now.Add(-5 * time.Hour)
	recent := now.Add(-1 * time.Hour)

	repos := []model.Repository{
		{ID: "never", PatternsCount: 50},
		{ID: "stale-high", PatternsCount: 200, LastAnalyzed: &longAgo},
		{ID: "fresh-high", PatternsCount: 200, LastAnalyzed: &recent},
	}

	due := dueList(repos, now)
	var ids []string
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, "never")
	assert.Contains(t, ids, "stale-high")
	assert.NotContains(t, ids, "fresh-high")
}

func TestDueListPreservesLastAnalyzedAscendingOrder(t *testing.T) {
	now := time.Now().UTC()
	older := now.Add(-48 * time.Hour)
	newer := now.Add(-30 * time.Hour)

	repos := []model.Repository{
		{ID: "b", PatternsCount: 5, LastAnalyzed: &newer},
		{ID: "a", PatternsCount: 5, LastAnalyzed: &older},
	}

	due := dueList(repos, now)
	assert.Len(t, due, 2)
	assert.Equal(t, "a", due[0].ID)
	assert.Equal(t, "b", due[1].ID)
}
