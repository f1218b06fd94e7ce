// Package training implements the training-case store and prevention-rule
// evaluator of spec.md §4.9 (C9): an append-only JSON-blob store (one file
// per case, one file for the active rule set) and the closed
// evaluateCondition predicate the validator (C8) consults. The one-file-
// per-record JSON layout is grounded on pkg/parser/import_cache.go's
// encoding/json read/write-whole-file idiom.
package training

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/githubnext/coderadar/internal/model"
)

// Store persists training cases and the active prevention-rule set as one
// JSON file per case under dir, plus a single prevention-rules.json.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("training: create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) casePath(id string) string {
	return filepath.Join(s.dir, "training-case-"+id+".json")
}

func (s *Store) rulesPath() string {
	return filepath.Join(s.dir, "prevention-rules.json")
}

// RecordRejection appends a training case for a rejected recommendation
// and merges any attached prevention rules into the active set, per
// spec.md §4.8/§4.9: higher confidence wins on name collision.
func (s *Store) RecordRejection(c model.TrainingCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("training: encode case %s: %w", c.ID, err)
	}
	if err := os.WriteFile(s.casePath(c.ID), data, 0o644); err != nil {
		return fmt.Errorf("training: write case %s: %w", c.ID, err)
	}

	if len(c.PreventionRules) == 0 {
		return nil
	}
	existing, err := s.loadRulesLocked()
	if err != nil {
		return err
	}
	merged := mergeRules(existing, c.PreventionRules)
	return s.saveRulesLocked(merged)
}

// ActiveRules returns the current merged prevention-rule set.
func (s *Store) ActiveRules() ([]model.PreventionRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRulesLocked()
}

func (s *Store) loadRulesLocked() ([]model.PreventionRule, error) {
	data, err := os.ReadFile(s.rulesPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("training: read rules: %w", err)
	}
	var rules []model.PreventionRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("training: decode rules: %w", err)
	}
	return rules, nil
}

func (s *Store) saveRulesLocked(rules []model.PreventionRule) error {
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("training: encode rules: %w", err)
	}
	if err := os.WriteFile(s.rulesPath(), data, 0o644); err != nil {
		return fmt.Errorf("training: write rules: %w", err)
	}
	return nil
}

// mergeRules combines existing with incoming, keeping the higher-confidence
// rule whenever two share a name.
func mergeRules(existing, incoming []model.PreventionRule) []model.PreventionRule {
	byName := make(map[string]model.PreventionRule, len(existing)+len(incoming))
	order := make([]string, 0, len(existing)+len(incoming))
	for _, r := range existing {
		byName[r.Name] = r
		order = append(order, r.Name)
	}
	for _, r := range incoming {
		if prev, ok := byName[r.Name]; !ok || r.Confidence > prev.Confidence {
			if !ok {
				order = append(order, r.Name)
			}
			byName[r.Name] = r
		}
	}
	merged := make([]model.PreventionRule, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		merged = append(merged, byName[name])
	}
	return merged
}

// EvaluateCondition is the closed, three-case predicate spec.md §4.9
// requires: exactly the conditions "title contains X AND description
// contains Y", "analysis.sophisticated_patterns includes X", and
// "codebase has error-middleware AND custom error classes AND async error
// handling". hasErrorHandlingEvidence/coverage are the validator's derived
// signal for the codebase-sophistication case; other kinds ignore them.
func EvaluateCondition(c model.Condition, rec model.Recommendation, hasErrorHandlingEvidence bool, coverage *float64) bool {
	switch c.Kind {
	case model.ConditionTitleAndDescriptionContains:
		return strings.Contains(rec.Title, c.TitleContains) && strings.Contains(rec.Description, c.DescContains)
	case model.ConditionSophisticatedPatternIncludes:
		for _, tag := range rec.Tags {
			if tag == c.PatternName {
				return true
			}
		}
		for _, p := range rec.ApplicablePatterns {
			if p == c.PatternName {
				return true
			}
		}
		return false
	case model.ConditionCodebaseHasErrorSophistication:
		return hasErrorHandlingEvidence && coverage != nil && *coverage > 0
	default:
		return false
	}
}
