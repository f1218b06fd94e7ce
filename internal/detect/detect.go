// Package detect implements the pattern and issue detector of spec.md §4.5
// (C5): pure, regex-driven functions over (text, path, repository context)
// that emit patterns plus security/type-safety/performance findings. There
// is no closer teacher analog for a pattern-intelligence rule engine in
// githubnext-gh-aw itself, so the rule-table shape is grounded on the
// indicator-weighted text scanning idiom in
// other_examples/f70843eb_qlp-hq-QLP…static_validator.go.go, adapted from
// LLM-prompt scoring to compiled-regex rule matching.
package detect

import (
	"sort"
	"strings"

	"github.com/githubnext/coderadar/internal/model"
	"github.com/githubnext/coderadar/pkg/stringutil"
)

// maxPatternContentLen bounds a stored pattern's matched text; a rule that
// matches an entire minified file would otherwise produce an unbounded
// Pattern.Content and balloon the store.
const maxPatternContentLen = 2000

// RepositoryContext is the (thin) repository-side input to detectors,
// carried alongside the file text and path.
type RepositoryContext struct {
	RepositoryID string
	Framework    string
}

// Result is the full output of detecting over a single file's text.
type Result struct {
	Patterns    []model.Pattern
	Security    []model.SecurityFinding
	TypeSafety  []model.TypeSafetyFinding
	Performance []model.PerformanceFinding
}

const staticConfidence = 0.8

// Detect runs the full closed rule set over text and returns every emitted
// pattern and finding. Detectors are pure: an empty file produces empty
// slices, never an error, and no detector retains state across calls
// (regexp.Regexp is reused package-level state but carries no per-call
// iterator state, satisfying spec.md §4.5's "reset regex state between
// files" policy for free).
func Detect(text, filePath string, ctx RepositoryContext) Result {
	var res Result
	if text == "" {
		return res
	}

	language := DetectLanguage(filePath)
	lineOffsets := computeLineOffsets(text)

	// Rules are applied independently per patternRules' ordering comment,
	// then merged by match start offset so emission order is the lexical
	// order of matches across the whole file, not grouped by rule.
	type offsetPattern struct {
		start int
		p     model.Pattern
	}
	var matches []offsetPattern
	for _, rule := range patternRules {
		locs := rule.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			start, end := loc[0], loc[1]
			content := strings.TrimSpace(text[start:end])
			if content == "" {
				continue
			}
			lineStart := lineForOffset(lineOffsets, start)
			lineEnd := lineStart + strings.Count(content, "\n")
			before, after := surroundingLines(text, lineOffsets, lineStart, lineEnd)

			matches = append(matches, offsetPattern{
				start: start,
				p: model.Pattern{
					RepositoryID:  ctx.RepositoryID,
					PatternType:   rule.Type,
					Category:      rule.Category,
					Subcategory:   rule.Subcategory,
					Content:       stringutil.Truncate(content, maxPatternContentLen),
					ContentHash:   ContentHash(content),
					FilePath:      filePath,
					LineStart:     lineStart,
					LineEnd:       lineEnd,
					Language:      language,
					Framework:     ctx.Framework,
					Confidence:    staticConfidence,
					Tags:          []string{rule.Category, rule.Subcategory, language},
					ContextBefore: before,
					ContextAfter:  after,
				},
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })
	for _, m := range matches {
		res.Patterns = append(res.Patterns, m.p)
	}

	res.Security = detectSecurity(text, filePath, lineOffsets)
	res.TypeSafety = detectTypeSafety(text, filePath, lineOffsets)
	res.Performance = detectPerformance(text, filePath, lineOffsets)
	return res
}

func detectSecurity(text, filePath string, lineOffsets []int) []model.SecurityFinding {
	var findings []model.SecurityFinding

	if expressAppRegex.MatchString(text) {
		if !helmetRegex.MatchString(text) {
			findings = append(findings, model.SecurityFinding{
				Type: "missing_middleware", Severity: model.SeverityHigh,
				Description:    "express() application found without helmet middleware",
				FilePath:       filePath,
				Recommendation: "Add helmet() to harden HTTP response headers",
			})
		}
		if !corsRegex.MatchString(text) {
			findings = append(findings, model.SecurityFinding{
				Type: "missing_middleware", Severity: model.SeverityMedium,
				Description:    "express() application found without cors middleware",
				FilePath:       filePath,
				Recommendation: "Configure cors() with an explicit allow-list",
			})
		}
		if !rateLimitRegex.MatchString(text) {
			findings = append(findings, model.SecurityFinding{
				Type: "missing_middleware", Severity: model.SeverityMedium,
				Description:    "express() application found without rate limiting middleware",
				FilePath:       filePath,
				Recommendation: "Add express-rate-limit to bound request volume",
			})
		}
	}

	for _, m := range insecureConfigRegex.FindAllStringIndex(text, -1) {
		line := lineForOffset(lineOffsets, m[0])
		findings = append(findings, model.SecurityFinding{
			Type: "insecure_config", Severity: model.SeverityCritical,
			Description:    "literal credential-shaped assignment found in source",
			FilePath:       filePath,
			LineNumber:     line,
			Recommendation: "Move secrets to environment variables or a secrets manager",
		})
	}

	return findings
}

func detectTypeSafety(text, filePath string, lineOffsets []int) []model.TypeSafetyFinding {
	var findings []model.TypeSafetyFinding

	for _, m := range anyUsageRegex.FindAllStringIndex(text, -1) {
		findings = append(findings, model.TypeSafetyFinding{
			Type: "any_usage", Description: "use of `any` bypasses static typing",
			FilePath: filePath, LineNumber: lineForOffset(lineOffsets, m[0]),
		})
	}

	for _, m := range unannotatedParamsRegex.FindAllStringSubmatchIndex(text, -1) {
		params := text[m[2]:m[3]]
		if strings.Contains(params, ":") {
			continue // at least one parameter is annotated; treat as typed
		}
		if strings.TrimSpace(params) == "" {
			continue
		}
		findings = append(findings, model.TypeSafetyFinding{
			Type: "missing_types", Description: "function parameters are unannotated",
			FilePath: filePath, LineNumber: lineForOffset(lineOffsets, m[0]),
		})
	}

	return findings
}

func detectPerformance(text, filePath string, lineOffsets []int) []model.PerformanceFinding {
	var findings []model.PerformanceFinding

	for _, m := range syncFsOpRegex.FindAllStringIndex(text, -1) {
		findings = append(findings, model.PerformanceFinding{
			Type: "sync_operation", Description: "synchronous fs call blocks the event loop",
			FilePath: filePath, LineNumber: lineForOffset(lineOffsets, m[0]),
		})
	}

	if setIntervalRegex.MatchString(text) && !clearIntervalRegex.MatchString(text) {
		findings = append(findings, model.PerformanceFinding{
			Type: "memory_leak", Description: "setInterval without a matching clearInterval in the same file",
			FilePath: filePath,
		})
	}

	for _, m := range inefficientLoopRegex.FindAllStringIndex(text, -1) {
		findings = append(findings, model.PerformanceFinding{
			Type: "inefficient_loop", Description: "array growth inside a for-loop; consider map/filter or preallocation",
			FilePath: filePath, LineNumber: lineForOffset(lineOffsets, m[0]),
		})
	}

	return findings
}

// computeLineOffsets returns the byte offset each line starts at (1-based
// line i starts at lineOffsets[i-1]).
func computeLineOffsets(text string) []int {
	offsets := []int{0}
	for i, c := range text {
		if c == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineForOffset returns the 1-based line number containing byte offset.
func lineForOffset(lineOffsets []int, offset int) int {
	lo, hi := 0, len(lineOffsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineOffsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// surroundingLines returns the two lines immediately before lineStart and
// immediately after lineEnd, per spec.md §4.5's context_before/context_after.
func surroundingLines(text string, lineOffsets []int, lineStart, lineEnd int) (before, after string) {
	lines := strings.Split(text, "\n")
	beforeFrom := lineStart - 1 - 2
	if beforeFrom < 0 {
		beforeFrom = 0
	}
	beforeTo := lineStart - 1
	if beforeTo > len(lines) {
		beforeTo = len(lines)
	}
	if beforeTo > beforeFrom {
		before = strings.Join(lines[beforeFrom:beforeTo], "\n")
	}

	afterFrom := lineEnd
	if afterFrom > len(lines) {
		afterFrom = len(lines)
	}
	afterTo := afterFrom + 2
	if afterTo > len(lines) {
		afterTo = len(lines)
	}
	if afterTo > afterFrom {
		after = strings.Join(lines[afterFrom:afterTo], "\n")
	}
	return before, after
}
