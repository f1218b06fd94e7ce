package recommend

import (
	"fmt"

	"github.com/githubnext/coderadar/internal/model"
)

// patternIDs returns the stable identifier for each pattern (its ID once
// persisted, falling back to its content hash before that), used to
// populate ApplicablePatterns.
func patternIDs(patterns []model.Pattern) []string {
	ids := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p.ID != "" {
			ids = append(ids, p.ID)
		} else {
			ids = append(ids, p.ContentHash)
		}
	}
	return ids
}

func patternsOfType(patterns []model.Pattern, types ...string) []model.Pattern {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []model.Pattern
	for _, p := range patterns {
		if want[p.PatternType] {
			out = append(out, p)
		}
	}
	return out
}

// genBase provides the shared GenerateFromScan implementation every
// profile generator embeds; only Generate differs per profile.
type genBase struct{}

func (genBase) GenerateFromScan(ctx Context, counts ScanCounts) []model.Recommendation {
	return defaultScanRecommendations(ctx.Repository.ID, counts)
}

// --- devops-monitoring ---

type devOpsMonitoringGenerator struct{ genBase }

func (devOpsMonitoringGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "error_handling", "async_operation")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Instrument existing error/async paths with observability",
			fmt.Sprintf("Found %d error-handling/async pattern(s) without associated metrics or tracing. Wire them into the monitoring stack.", len(matched)),
			model.RecBestPractices, model.PriorityMedium)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"observability", "devops"}
		rec.EstimatedEffort = "2-3 days"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Emit a structured log on catch", Language: "TypeScript",
			Before: "} catch (err) { console.log(err); }",
			After:  "} catch (err) { logger.error('operation_failed', { err }); metrics.increment('errors'); }",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Wrap catch blocks", Description: "Replace console.log with structured logging"},
			{StepNo: 2, Title: "Add counters", Description: "Increment an error metric per failure path"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Add baseline health and metrics endpoints",
		"No monitoring-related patterns were detected. A devops-classified service should expose health checks and metrics.",
		model.RecBestPractices, model.PriorityMedium)
	rec.Tags = []string{"observability", "devops"}
	rec.EstimatedEffort = "1-2 days"
	rec.CodeExamples = []model.CodeExample{{
		Title: "Add a /healthz endpoint", Language: "TypeScript",
		Before: "app.get('/', handler);",
		After:  "app.get('/', handler);\napp.get('/healthz', (_, res) => res.sendStatus(200));",
	}}
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Add health endpoint", Description: "Expose /healthz"},
		{StepNo: 2, Title: "Export metrics", Description: "Expose a /metrics endpoint for scraping"},
	}
	return []model.Recommendation{rec}
}

// --- react-frontend ---

type reactFrontendGenerator struct{ genBase }

func (reactFrontendGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "react_component", "hook_usage")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Memoize expensive component renders",
			fmt.Sprintf("Found %d component/hook pattern(s); components re-rendering on every parent update are a common source of jank.", len(matched)),
			model.RecPerformance, model.PriorityMedium)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"react", "performance"}
		rec.EstimatedEffort = "2-3 days"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Wrap a pure component in memo", Language: "TypeScript",
			Before: "export function Row(props: RowProps) { ... }",
			After:  "export const Row = React.memo(function Row(props: RowProps) { ... });",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Profile renders", Description: "Use the React profiler to find hot components"},
			{StepNo: 2, Title: "Apply memo/useMemo", Description: "Memoize components and derived values"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Adopt a component testing strategy",
		"No component patterns were detected yet; establish a baseline component test harness before the surface grows.",
		model.RecBestPractices, model.PriorityLow)
	rec.Tags = []string{"react", "testing"}
	rec.EstimatedEffort = "1-2 days"
	rec.CodeExamples = []model.CodeExample{{
		Title: "Render test", Language: "TypeScript",
		Before: "// no tests",
		After:  "test('renders', () => { render(<Row {...props} />); });",
	}}
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Add testing-library", Description: "Install @testing-library/react"},
	}
	return []model.Recommendation{rec}
}

// --- azure-functions ---

type azureFunctionsGenerator struct{ genBase }

func (azureFunctionsGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "async_operation")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Bound function execution with explicit timeouts",
			fmt.Sprintf("Found %d async operation(s) inside function handlers without a deadline; long-running invocations risk host-level timeouts.", len(matched)),
			model.RecArchitecture, model.PriorityMedium)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"azure", "functions"}
		rec.EstimatedEffort = "2-3 days"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Race an await against a timeout", Language: "TypeScript",
			Before: "const result = await longRunningCall();",
			After:  "const result = await Promise.race([longRunningCall(), timeout(context.functionTimeout)]);",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Identify long calls", Description: "List async operations without a bound"},
			{StepNo: 2, Title: "Add timeouts", Description: "Race against host.json's functionTimeout"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Externalize function configuration",
		"Azure Function apps should read connection strings and secrets from application settings, not source.",
		model.RecArchitecture, model.PriorityMedium)
	rec.Tags = []string{"azure", "functions"}
	rec.EstimatedEffort = "1 day"
	rec.CodeExamples = []model.CodeExample{{
		Title: "Read from environment", Language: "TypeScript",
		Before: "const conn = 'DefaultEndpointsProtocol=...';",
		After:  "const conn = process.env.STORAGE_CONNECTION_STRING;",
	}}
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Move secrets to app settings", Description: "Use process.env for all connection strings"},
	}
	return []model.Recommendation{rec}
}

// --- healthcare-enterprise ---

type healthcareEnterpriseGenerator struct{ genBase }

func (healthcareEnterpriseGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "security_middleware")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Extend audit logging to all PHI-adjacent routes",
			fmt.Sprintf("Found %d security middleware pattern(s); confirm every route touching patient data is covered.", len(matched)),
			model.RecSecurity, model.PriorityHigh)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"healthcare", "compliance"}
		rec.EstimatedEffort = "3-5 days"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Audit middleware", Language: "TypeScript",
			Before: "app.use(helmet());",
			After:  "app.use(helmet());\napp.use(auditLog());",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Enumerate PHI routes", Description: "List every route touching patient records"},
			{StepNo: 2, Title: "Attach audit middleware", Description: "Ensure each route logs accessor identity"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Introduce field-level encryption for patient records",
		"No security middleware patterns were detected; a healthcare-classified service handling PHI should encrypt sensitive fields at rest.",
		model.RecSecurity, model.PriorityHigh)
	rec.Tags = []string{"healthcare", "compliance"}
	rec.EstimatedEffort = "1-2 weeks"
	rec.CodeExamples = []model.CodeExample{{
		Title: "Encrypt before persisting", Language: "TypeScript",
		Before: "await db.save({ ssn });",
		After:  "await db.save({ ssn: encrypt(ssn) });",
	}}
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Classify PHI fields", Description: "Identify which columns hold protected data"},
		{StepNo: 2, Title: "Add encryption at the data layer", Description: "Encrypt/decrypt transparently around storage"},
	}
	return []model.Recommendation{rec}
}

// --- middleware-api ---

type middlewareAPIGenerator struct{ genBase }

func (middlewareAPIGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "import_statement", "function_declaration")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Document middleware contract boundaries",
			fmt.Sprintf("Found %d import/function pattern(s) composing the middleware chain without a documented contract.", len(matched)),
			model.RecBestPractices, model.PriorityMedium)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"middleware", "api"}
		rec.EstimatedEffort = "2-3 days"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Typed middleware signature", Language: "TypeScript",
			Before: "function mw(req, res, next) { ... }",
			After:  "function mw(req: Request, res: Response, next: NextFunction): void { ... }",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Annotate signatures", Description: "Type every middleware function's parameters"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Centralize request validation middleware",
		"Request validation appears scattered; consolidate it into a single reusable middleware.",
		model.RecArchitecture, model.PriorityMedium)
	rec.Tags = []string{"middleware", "api"}
	rec.EstimatedEffort = "2-3 days"
	rec.CodeExamples = []model.CodeExample{{
		Title: "Shared validation middleware", Language: "TypeScript",
		Before: "if (!req.body.name) return res.status(400).end();",
		After:  "app.post('/x', validate(schema), handler);",
	}}
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Pick a schema library", Description: "Adopt zod or joi for request validation"},
		{StepNo: 2, Title: "Extract a validate() middleware", Description: "Replace ad-hoc checks with the shared middleware"},
	}
	return []model.Recommendation{rec}
}

// --- legacy-migration ---

type legacyMigrationGenerator struct{ genBase }

func (legacyMigrationGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "type_definition")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Expand type coverage before the next migration phase",
			fmt.Sprintf("Found %d type definition(s) already in place; extend them to cover the remaining untyped modules before cutover.", len(matched)),
			model.RecMigration, model.PriorityMedium)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"migration", "legacy"}
		rec.EstimatedEffort = "1-2 weeks"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Promote a shared interface", Language: "TypeScript",
			Before: "function handle(x) { ... }",
			After:  "interface Payload { id: string }\nfunction handle(x: Payload) { ... }",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Inventory untyped modules", Description: "List modules without a corresponding interface"},
			{StepNo: 2, Title: "Backfill types incrementally", Description: "Migrate module-by-module, not all at once"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Establish a strangler-fig boundary",
		"No type definitions were detected yet; wrap the legacy surface behind a typed interface before migrating callers incrementally.",
		model.RecMigration, model.PriorityHigh)
	rec.Tags = []string{"migration", "legacy"}
	rec.EstimatedEffort = "1-2 weeks"
	rec.CodeExamples = []model.CodeExample{{
		Title: "Wrap the legacy call", Language: "TypeScript",
		Before: "legacyModule.doThing(x, y);",
		After:  "interface DoThing { (x: string, y: number): void }\nconst doThing: DoThing = legacyModule.doThing;",
	}}
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Define the seam", Description: "Pick the boundary the strangler fig grows from"},
		{StepNo: 2, Title: "Route new callers through it", Description: "New code never calls the legacy module directly"},
	}
	return []model.Recommendation{rec}
}

// --- fullstack-typescript ---

type fullstackTypeScriptGenerator struct{ genBase }

func (fullstackTypeScriptGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "import_statement")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Share request/response types between client and server",
			fmt.Sprintf("Found %d import pattern(s) that likely duplicate types across the frontend/backend boundary.", len(matched)),
			model.RecArchitecture, model.PriorityMedium)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"fullstack", "typescript"}
		rec.EstimatedEffort = "3-5 days"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Extract a shared types package", Language: "TypeScript",
			Before: "// duplicated in client/ and server/",
			After:  "import { UserDTO } from '@acme/shared-types';",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Identify duplicated types", Description: "Diff client and server type definitions"},
			{StepNo: 2, Title: "Extract a shared package", Description: "Publish shared types as a workspace package"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Adopt end-to-end type safety for API calls",
		"No shared import patterns were detected; introduce a typed client so API contract drift fails at compile time.",
		model.RecBestPractices, model.PriorityMedium)
	rec.Tags = []string{"fullstack", "typescript"}
	rec.EstimatedEffort = "1 week"
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Generate a typed client", Description: "Derive request/response types from the API schema"},
	}
	rec.CodeExamples = []model.CodeExample{{
		Title: "Typed API call", Language: "TypeScript",
		Before: "const res = await fetch('/api/users'); const data = await res.json();",
		After:  "const data = await apiClient.getUsers(); // typed",
	}}
	return []model.Recommendation{rec}
}

// --- general-typescript ---

type generalTypeScriptGenerator struct{ genBase }

func (generalTypeScriptGenerator) Generate(ctx Context) []model.Recommendation {
	matched := patternsOfType(ctx.Patterns, "function_declaration", "arrow_function")
	if len(matched) > 0 {
		rec := newRecommendation(ctx.Repository.ID,
			"Add unit tests around existing functions",
			fmt.Sprintf("Found %d function pattern(s) without matching test coverage detected in the scan.", len(matched)),
			model.RecBestPractices, model.PriorityLow)
		rec.ApplicablePatterns = patternIDs(matched)
		rec.Tags = []string{"testing"}
		rec.EstimatedEffort = "2-3 days"
		rec.CodeExamples = []model.CodeExample{{
			Title: "Basic unit test", Language: "TypeScript",
			Before: "// no test",
			After:  "test('computesTotal', () => { expect(computeTotal([1,2,3])).toBe(6); });",
		}}
		rec.ImplementationSteps = []model.ImplementationStep{
			{StepNo: 1, Title: "Pick highest-risk functions", Description: "Start with functions touched most often in history"},
			{StepNo: 2, Title: "Add characterization tests", Description: "Capture current behavior before refactoring"},
		}
		return []model.Recommendation{rec}
	}

	rec := newRecommendation(ctx.Repository.ID,
		"Adopt a linter and formatter baseline",
		"No structural patterns were detected yet; establish consistent style and a CI lint gate before the codebase grows further.",
		model.RecBestPractices, model.PriorityLow)
	rec.Tags = []string{"tooling"}
	rec.EstimatedEffort = "1 day"
	rec.CodeExamples = []model.CodeExample{{
		Title: "ESLint config", Language: "TypeScript",
		Before: "// no lint config",
		After:  "module.exports = { extends: ['eslint:recommended'] };",
	}}
	rec.ImplementationSteps = []model.ImplementationStep{
		{StepNo: 1, Title: "Add eslint + prettier", Description: "Install and configure baseline rules"},
		{StepNo: 2, Title: "Wire into CI", Description: "Fail the build on lint errors"},
	}
	return []model.Recommendation{rec}
}
