// Package store implements the persistence layer of spec.md §4.10 (C10):
// a SQLite-backed relational store for repositories, patterns, and
// recommendations. The schema-as-constant plus pragma_table_info-guarded
// migration idiom is grounded directly on
// Heikkila-Pty-Ltd-cortex/internal/store/store.go, which uses the same
// modernc.org/sqlite + database/sql combination.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/githubnext/coderadar/internal/model"
)

// Store is a SQLite-backed handle to the repository/pattern/recommendation
// tables.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS repositories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	full_name TEXT NOT NULL,
	organization TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	default_branch TEXT NOT NULL DEFAULT '',
	primary_language TEXT NOT NULL DEFAULT '',
	tech_stack_profile TEXT NOT NULL DEFAULT '',
	framework TEXT NOT NULL DEFAULT '',
	categories TEXT NOT NULL DEFAULT '[]',
	branches TEXT NOT NULL DEFAULT '[]',
	patterns_count INTEGER NOT NULL DEFAULT 0,
	analysis_status TEXT NOT NULL DEFAULT 'pending',
	last_analyzed DATETIME,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS repository_patterns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	repository_id TEXT NOT NULL,
	pattern_type TEXT NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	file_path TEXT NOT NULL,
	line_start INTEGER NOT NULL DEFAULT 0,
	line_end INTEGER NOT NULL DEFAULT 0,
	language TEXT NOT NULL DEFAULT '',
	framework TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL DEFAULT 0,
	tags TEXT NOT NULL DEFAULT '[]',
	context_before TEXT NOT NULL DEFAULT '',
	context_after TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS repository_recommendations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	repository_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	recommendation_type TEXT NOT NULL,
	priority TEXT NOT NULL,
	applicable_patterns TEXT NOT NULL DEFAULT '[]',
	code_examples TEXT NOT NULL DEFAULT '[]',
	implementation_steps TEXT NOT NULL DEFAULT '[]',
	estimated_effort TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	status TEXT NOT NULL DEFAULT 'active',
	metrics TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS improvements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	repository_id TEXT NOT NULL,
	counter_name TEXT NOT NULL,
	counter_value INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_patterns_repository ON repository_patterns(repository_id);
CREATE INDEX IF NOT EXISTS idx_patterns_hash ON repository_patterns(repository_id, content_hash, file_path, line_start);
CREATE INDEX IF NOT EXISTS idx_recommendations_repository_status ON repository_recommendations(repository_id, status, title);
CREATE INDEX IF NOT EXISTS idx_recommendations_created ON repository_recommendations(status, created_at);
`

// Open creates or opens a SQLite database at dbPath and ensures the schema
// and any pending migrations are applied.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dbPath, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// migrate applies incremental schema migrations for existing databases:
// it adds repositories.metadata when an older database lacks it, one
// pragma_table_info check per column, the same way the teacher store does.
func migrate(db *sql.DB) error {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('repositories') WHERE name = 'metadata'`).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		if _, err := db.Exec(`ALTER TABLE repositories ADD COLUMN metadata TEXT NOT NULL DEFAULT '{}'`); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func unmarshalJSONOrZero[T any](data string) T {
	var v T
	if data == "" {
		return v
	}
	_ = json.Unmarshal([]byte(data), &v)
	return v
}

// UpsertRepository inserts or replaces repo by id, per spec.md §4.10.
func (s *Store) UpsertRepository(repo model.Repository) error {
	var lastAnalyzed any
	if repo.LastAnalyzed != nil {
		lastAnalyzed = repo.LastAnalyzed.UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO repositories (
			id, name, full_name, organization, description, default_branch,
			primary_language, tech_stack_profile, framework, categories, branches,
			patterns_count, analysis_status, last_analyzed, created_at, updated_at, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			full_name = excluded.full_name,
			organization = excluded.organization,
			description = excluded.description,
			default_branch = excluded.default_branch,
			primary_language = excluded.primary_language,
			tech_stack_profile = excluded.tech_stack_profile,
			framework = excluded.framework,
			categories = excluded.categories,
			branches = excluded.branches,
			patterns_count = excluded.patterns_count,
			analysis_status = excluded.analysis_status,
			last_analyzed = excluded.last_analyzed,
			updated_at = excluded.updated_at,
			metadata = excluded.metadata
	`,
		repo.ID, repo.Name, repo.FullName, repo.Organization, repo.Description, repo.DefaultBranch,
		repo.PrimaryLanguage, repo.TechStackProfile, repo.Framework, marshalJSON(repo.Categories), marshalJSON(repo.Branches),
		repo.PatternsCount, string(repo.AnalysisStatus), lastAnalyzed, repo.CreatedAt.UTC(), repo.UpdatedAt.UTC(), marshalJSON(repo.Metadata),
	)
	if err != nil {
		return fmt.Errorf("store: upsert repository %s: %w", repo.ID, err)
	}
	return nil
}

// ReplacePatterns transactionally deletes every existing pattern row for
// repositoryID and inserts the given set, per spec.md §4.10.
func (s *Store) ReplacePatterns(repositoryID string, patterns []model.Pattern) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin replace_patterns: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM repository_patterns WHERE repository_id = ?`, repositoryID); err != nil {
		return fmt.Errorf("store: clear patterns for %s: %w", repositoryID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO repository_patterns (
			repository_id, pattern_type, category, subcategory, content, content_hash,
			file_path, line_start, line_end, language, framework, confidence, tags,
			context_before, context_after, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("store: prepare insert pattern: %w", err)
	}
	defer stmt.Close()

	for _, p := range patterns {
		if _, err := stmt.Exec(
			repositoryID, p.PatternType, p.Category, p.Subcategory, p.Content, p.ContentHash,
			p.FilePath, p.LineStart, p.LineEnd, p.Language, p.Framework, p.Confidence, marshalJSON(p.Tags),
			p.ContextBefore, p.ContextAfter, marshalJSON(p.Metadata),
		); err != nil {
			return fmt.Errorf("store: insert pattern for %s: %w", repositoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit replace_patterns: %w", err)
	}
	return nil
}

// InsertRecommendationsUnique inserts recs, skipping any whose
// (repository_id, title) already has an active row, and skipping
// intra-batch duplicates too, per spec.md §4.10. Returns the number
// actually inserted.
func (s *Store) InsertRecommendationsUnique(recs []model.Recommendation) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: begin insert_recommendations_unique: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO repository_recommendations (
			repository_id, title, description, recommendation_type, priority,
			applicable_patterns, code_examples, implementation_steps, estimated_effort,
			tags, status, metrics, created_at, updated_at, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare insert recommendation: %w", err)
	}
	defer stmt.Close()

	existsStmt, err := tx.Prepare(`SELECT COUNT(*) FROM repository_recommendations WHERE repository_id = ? AND title = ? AND status = 'active'`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare exists check: %w", err)
	}
	defer existsStmt.Close()

	seenInBatch := make(map[string]bool, len(recs))
	inserted := 0
	for _, r := range recs {
		key := r.RepositoryID + "\x00" + r.Title
		if seenInBatch[key] {
			continue
		}
		var count int
		if err := existsStmt.QueryRow(r.RepositoryID, r.Title).Scan(&count); err != nil {
			return inserted, fmt.Errorf("store: check existing recommendation: %w", err)
		}
		if count > 0 {
			seenInBatch[key] = true
			continue
		}
		seenInBatch[key] = true

		status := r.Status
		if status == "" {
			status = model.StatusActive
		}
		if _, err := stmt.Exec(
			r.RepositoryID, r.Title, r.Description, string(r.RecommendationType), string(r.Priority),
			marshalJSON(r.ApplicablePatterns), marshalJSON(r.CodeExamples), marshalJSON(r.ImplementationSteps), r.EstimatedEffort,
			marshalJSON(r.Tags), string(status), marshalJSON(r.Metrics), r.CreatedAt.UTC(), r.UpdatedAt.UTC(), marshalJSON(r.Metadata),
		); err != nil {
			return inserted, fmt.Errorf("store: insert recommendation %q: %w", r.Title, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("store: commit insert_recommendations_unique: %w", err)
	}
	return inserted, nil
}

// AgeStaleRecommendations sets status='outdated' on every active row
// created before cutoff, per spec.md §4.10/§4.12.
func (s *Store) AgeStaleRecommendations(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`UPDATE repository_recommendations SET status = 'outdated', updated_at = ? WHERE status = 'active' AND created_at < ?`,
		time.Now().UTC(), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("store: age_stale_recommendations: %w", err)
	}
	return res.RowsAffected()
}

// CleanupDuplicateRecommendations keeps the most recently created active
// row per (repository_id, title) and deletes the rest, returning the count
// deleted. On a tie in created_at, the lowest id is kept (spec.md §9 open
// question, decided in DESIGN.md).
func (s *Store) CleanupDuplicateRecommendations() (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM repository_recommendations
		WHERE status = 'active' AND id NOT IN (
			SELECT id FROM (
				SELECT id, repository_id, title,
					ROW_NUMBER() OVER (
						PARTITION BY repository_id, title
						ORDER BY created_at DESC, id ASC
					) AS rn
				FROM repository_recommendations
				WHERE status = 'active'
			) ranked WHERE rn = 1
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("store: cleanup_duplicate_recommendations: %w", err)
	}
	return res.RowsAffected()
}

// ClearRepositoryRecommendations deletes active rows for repositoryID,
// used at the start of a fresh scan (spec.md §4.11 step 4).
func (s *Store) ClearRepositoryRecommendations(repositoryID string) error {
	if _, err := s.db.Exec(`DELETE FROM repository_recommendations WHERE repository_id = ? AND status = 'active'`, repositoryID); err != nil {
		return fmt.Errorf("store: clear_repository_recommendations %s: %w", repositoryID, err)
	}
	return nil
}

// AnalyzedRepositoriesByLastAnalyzed returns every analyzed repository
// ordered by last_analyzed ascending, per spec.md §4.11 step 1.
func (s *Store) AnalyzedRepositoriesByLastAnalyzed() ([]model.Repository, error) {
	rows, err := s.db.Query(`
		SELECT id, name, full_name, organization, description, default_branch,
			primary_language, tech_stack_profile, framework, categories, branches,
			patterns_count, analysis_status, last_analyzed, created_at, updated_at, metadata
		FROM repositories WHERE analysis_status = 'analyzed' ORDER BY last_analyzed ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query analyzed repositories: %w", err)
	}
	defer rows.Close()

	var repos []model.Repository
	for rows.Next() {
		var r model.Repository
		var categories, branches, metadata string
		var lastAnalyzed sql.NullTime
		if err := rows.Scan(
			&r.ID, &r.Name, &r.FullName, &r.Organization, &r.Description, &r.DefaultBranch,
			&r.PrimaryLanguage, &r.TechStackProfile, &r.Framework, &categories, &branches,
			&r.PatternsCount, &r.AnalysisStatus, &lastAnalyzed, &r.CreatedAt, &r.UpdatedAt, &metadata,
		); err != nil {
			return nil, fmt.Errorf("store: scan repository row: %w", err)
		}
		r.Categories = unmarshalJSONOrZero[[]string](categories)
		r.Branches = unmarshalJSONOrZero[[]string](branches)
		r.Metadata = unmarshalJSONOrZero[map[string]any](metadata)
		if lastAnalyzed.Valid {
			t := lastAnalyzed.Time
			r.LastAnalyzed = &t
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}
