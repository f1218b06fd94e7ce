package recommend

import (
	"sort"

	"github.com/githubnext/coderadar/internal/model"
)

var priorityRank = map[model.Priority]int{
	model.PriorityCritical: 0,
	model.PriorityHigh:     1,
	model.PriorityMedium:   2,
	model.PriorityLow:      3,
}

var typeRank = map[model.RecommendationType]int{
	model.RecSecurity:      0,
	model.RecTypeSafety:    1,
	model.RecArchitecture:  2,
	model.RecPerformance:   3,
	model.RecBestPractices: 4,
	model.RecPatternUsage:  4,
	model.RecMigration:     4,
}

// Order sorts a final recommendation set per spec.md §4.7: priority first
// (critical > high > medium > low), then recommendation_type (security >
// type_safety > architecture > performance > best_practices = pattern_usage
// = migration). spec.md §4.7 doesn't rank type_safety explicitly; it is
// placed directly after security rather than left at the map-miss zero
// value, which would otherwise tie it with security. The sort is stable so
// recommendations tying on both keys keep their original relative order.
func Order(recs []model.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		pi, pj := priorityRank[recs[i].Priority], priorityRank[recs[j].Priority]
		if pi != pj {
			return pi < pj
		}
		return typeRank[recs[i].RecommendationType] < typeRank[recs[j].RecommendationType]
	})
}
