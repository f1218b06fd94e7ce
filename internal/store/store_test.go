package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/githubnext/coderadar/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertRepositoryInsertsThenUpdates(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()
	repo := model.Repository{ID: "r1", Name: "widgets", FullName: "acme/widgets", CreatedAt: now, UpdatedAt: now, AnalysisStatus: model.AnalysisPending}
	require.NoError(t, s.UpsertRepository(repo))

	repo.AnalysisStatus = model.AnalysisAnalyzed
	repo.PatternsCount = 5
	require.NoError(t, s.UpsertRepository(repo))

	repos, err := s.AnalyzedRepositoriesByLastAnalyzed()
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, 5, repos[0].PatternsCount)
}

func TestReplacePatternsIsTransactionalReplace(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.ReplacePatterns("r1", []model.Pattern{
		{PatternType: "function_declaration", Category: "structure", ContentHash: "h1", FilePath: "a.ts"},
		{PatternType: "arrow_function", Category: "structure", ContentHash: "h2", FilePath: "b.ts"},
	}))
	require.NoError(t, s.ReplacePatterns("r1", []model.Pattern{
		{PatternType: "hook_usage", Category: "react", ContentHash: "h3", FilePath: "c.ts"},
	}))

	var count int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM repository_patterns WHERE repository_id = ?`, "r1")
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}

func TestInsertRecommendationsUniqueSkipsExistingAndIntraBatchDuplicates(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()
	rec := model.Recommendation{RepositoryID: "r1", Title: "Add tests", Status: model.StatusActive, CreatedAt: now, UpdatedAt: now}

	n, err := s.InsertRecommendationsUnique([]model.Recommendation{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.InsertRecommendationsUnique([]model.Recommendation{rec, rec})
	require.NoError(t, err)
	assert.Equal(t, 0, n, "both the pre-existing active row and the intra-batch duplicate must be skipped")
}

func TestAgeStaleRecommendations(t *testing.T) {
	s := openTestStore(t)
	old := time.Now().Add(-40 * 24 * time.Hour).UTC()
	rec := model.Recommendation{RepositoryID: "r1", Title: "Old rec", Status: model.StatusActive, CreatedAt: old, UpdatedAt: old}
	_, err := s.InsertRecommendationsUnique([]model.Recommendation{rec})
	require.NoError(t, err)

	n, err := s.AgeStaleRecommendations(time.Now().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCleanupDuplicateRecommendationsKeepsNewest(t *testing.T) {
	s := openTestStore(t)
	older := time.Now().Add(-time.Hour).UTC()
	newer := time.Now().UTC()

	_, err := s.db.Exec(`INSERT INTO repository_recommendations (repository_id, title, description, recommendation_type, priority, status, created_at, updated_at) VALUES (?, ?, '', '', '', 'active', ?, ?)`,
		"r1", "Dup title", older, older)
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO repository_recommendations (repository_id, title, description, recommendation_type, priority, status, created_at, updated_at) VALUES (?, ?, '', '', '', 'active', ?, ?)`,
		"r1", "Dup title", newer, newer)
	require.NoError(t, err)

	deleted, err := s.CleanupDuplicateRecommendations()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remainingCreatedAt time.Time
	row := s.db.QueryRow(`SELECT created_at FROM repository_recommendations WHERE repository_id = ? AND title = ?`, "r1", "Dup title")
	require.NoError(t, row.Scan(&remainingCreatedAt))
	assert.WithinDuration(t, newer, remainingCreatedAt, time.Second)
}

func TestClearRepositoryRecommendationsOnlyDeletesActive(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()
	_, err := s.InsertRecommendationsUnique([]model.Recommendation{
		{RepositoryID: "r1", Title: "A", Status: model.StatusActive, CreatedAt: now, UpdatedAt: now},
	})
	require.NoError(t, err)

	require.NoError(t, s.ClearRepositoryRecommendations("r1"))

	var count int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM repository_recommendations WHERE repository_id = ? AND status = 'active'`, "r1")
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 0, count)
}
