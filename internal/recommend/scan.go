package recommend

import "github.com/githubnext/coderadar/internal/model"

// scanSeverityRecommendation builds the one issue-count-driven recommendation
// for a single dimension (security/type_safety/performance), scaling effort
// and priority with the count. Shared across all eight generators since
// spec.md §4.7 fixes this scaling behavior independent of profile; only the
// title/tags/examples vary by profile.
func scanSeverityRecommendation(repoID string, count int, recType model.RecommendationType, title, description string, tags []string, example model.CodeExample, steps []model.ImplementationStep) model.Recommendation {
	priority := model.PriorityMedium
	effort := "1-2 days"
	switch {
	case count >= 20:
		priority = model.PriorityCritical
		effort = "1-2 weeks"
	case count >= 8:
		priority = model.PriorityHigh
		effort = "3-5 days"
	case count >= 3:
		priority = model.PriorityMedium
		effort = "2-3 days"
	default:
		priority = model.PriorityLow
		effort = "1 day"
	}

	rec := newRecommendation(repoID, title, description, recType, priority)
	rec.Tags = tags
	rec.EstimatedEffort = effort
	rec.CodeExamples = []model.CodeExample{example}
	rec.ImplementationSteps = steps
	rec.Metrics = model.RecommendationMetrics{BugsPrevented: count}
	return rec
}

// defaultScanRecommendations produces the generic (profile-agnostic) body
// of generate_from_scan: up to three recommendations, one per non-zero
// dimension. Profile generators call this and may append/override tags.
func defaultScanRecommendations(repoID string, counts ScanCounts) []model.Recommendation {
	if counts.isZero() {
		return nil
	}

	var recs []model.Recommendation
	if counts.SecurityCount > 0 {
		recs = append(recs, scanSeverityRecommendation(repoID, counts.SecurityCount,
			model.RecSecurity,
			"Close outstanding security findings",
			"Automated scanning found unresolved security issues across the codebase. Address the highest-severity findings first.",
			[]string{"security"},
			model.CodeExample{
				Title:    "Add security middleware",
				Before:   "const app = express();",
				After:    "const app = express();\napp.use(helmet());\napp.use(cors());",
				Language: "TypeScript",
			},
			[]model.ImplementationStep{
				{StepNo: 1, Title: "Triage findings", Description: "Group findings by severity and file"},
				{StepNo: 2, Title: "Patch critical/high findings", Description: "Fix credential leaks and missing middleware first"},
			},
		))
	}
	if counts.TypeSafetyCount > 0 {
		recs = append(recs, scanSeverityRecommendation(repoID, counts.TypeSafetyCount,
			model.RecTypeSafety,
			"Reduce untyped surface area",
			"Multiple uses of `any` or unannotated parameters were found, weakening static guarantees.",
			[]string{"type_safety"},
			model.CodeExample{
				Title:    "Replace any with a concrete type",
				Before:   "function handle(data: any) { ... }",
				After:    "function handle(data: RequestPayload) { ... }",
				Language: "TypeScript",
			},
			[]model.ImplementationStep{
				{StepNo: 1, Title: "Inventory any usages", Description: "List all any_usage findings"},
				{StepNo: 2, Title: "Introduce concrete types", Description: "Replace any with interfaces derived from call sites"},
			},
		))
	}
	if counts.PerformanceCount > 0 {
		recs = append(recs, scanSeverityRecommendation(repoID, counts.PerformanceCount,
			model.RecPerformance,
			"Address detected performance issues",
			"Synchronous I/O, unbounded loops, or unmanaged timers were found that can degrade throughput under load.",
			[]string{"performance"},
			model.CodeExample{
				Title:    "Avoid blocking the event loop",
				Before:   "const data = fs.readFileSync(path);",
				After:    "const data = await fs.promises.readFile(path);",
				Language: "TypeScript",
			},
			[]model.ImplementationStep{
				{StepNo: 1, Title: "Replace sync fs calls", Description: "Swap *Sync calls for promise-based equivalents"},
				{StepNo: 2, Title: "Audit timers", Description: "Ensure every setInterval has a matching clearInterval"},
			},
		))
	}
	return recs
}
