package detect

import "regexp"

// patternRule is one entry of the closed pattern rule set of spec.md §4.5.
type patternRule struct {
	Type        string
	Category    string
	Subcategory string
	Regex       *regexp.Regexp
}

// patternRules is the exact nine-rule set spec.md §4.5 enumerates, each a
// regex/category/subcategory/type tuple. Rules are applied independently and
// their matches merged by offset (spec.md §5: lexical order of matches, not
// rule order); slice order only breaks ties between matches at one offset.
var patternRules = []patternRule{
	{
		Type: "function_declaration", Category: "structure", Subcategory: "function",
		Regex: regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\([^)]*\)|(?m)^\s*(?:public\s+|private\s+|static\s+)*(?:async\s+)?def\s+(\w+)\s*\(|(?m)^\s*func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(`),
	},
	{
		Type: "arrow_function", Category: "structure", Subcategory: "arrow_function",
		Regex: regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>`),
	},
	{
		Type: "type_definition", Category: "types", Subcategory: "type_definition",
		Regex: regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:interface|type)\s+(\w+)`),
	},
	{
		Type: "import_statement", Category: "imports", Subcategory: "import_statement",
		Regex: regexp.MustCompile(`(?m)^\s*import\s+.*['"][^'"]+['"]`),
	},
	{
		Type: "react_component", Category: "react", Subcategory: "component",
		Regex: regexp.MustCompile(`(?ms)^\s*(?:export\s+)?(?:default\s+)?function\s+([A-Z]\w*)\s*\([^)]*\)\s*\{[^}]{0,400}?return\s*\(?\s*<`),
	},
	{
		Type: "hook_usage", Category: "react", Subcategory: "hook",
		Regex: regexp.MustCompile(`\buse[A-Z]\w*\s*\(`),
	},
	{
		Type: "error_handling", Category: "reliability", Subcategory: "try_catch",
		Regex: regexp.MustCompile(`\btry\s*\{`),
	},
	{
		Type: "async_operation", Category: "async", Subcategory: "await",
		Regex: regexp.MustCompile(`\bawait\s+\S+`),
	},
	{
		Type: "security_middleware", Category: "security", Subcategory: "middleware",
		Regex: regexp.MustCompile(`\b(helmet|cors|rateLimit|csrf)\s*\(`),
	},
}

// Security check regexes, grounded on spec.md §4.5's closed security list.
var (
	expressAppRegex   = regexp.MustCompile(`\bexpress\s*\(\s*\)`)
	helmetRegex       = regexp.MustCompile(`\bhelmet\b`)
	corsRegex         = regexp.MustCompile(`\bcors\b`)
	rateLimitRegex    = regexp.MustCompile(`\b(rateLimit|express-rate-limit)\b`)
	insecureConfigRegex = regexp.MustCompile(`(?i)(password|api[_-]?key|secret|token)\s*[:=]\s*["']([^"']+)["']`)
)

// Type-safety check regexes.
var (
	anyUsageRegex      = regexp.MustCompile(`:\s*any\b|\bas\s+any\b`)
	unannotatedParamsRegex = regexp.MustCompile(`(?m)function\s+\w+\s*\(([a-zA-Z0-9_,\s]+)\)\s*\{`)
)

// Performance check regexes.
var (
	syncFsOpRegex    = regexp.MustCompile(`\bfs\.(readFileSync|writeFileSync|existsSync|statSync)\s*\(`)
	setIntervalRegex = regexp.MustCompile(`\bsetInterval\s*\(`)
	clearIntervalRegex = regexp.MustCompile(`\bclearInterval\s*\(`)
	inefficientLoopRegex = regexp.MustCompile(`(?ms)\bfor\s*\([^)]*\)\s*\{[^}]{0,200}?\.push\s*\(`)
)
