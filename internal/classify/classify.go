// Package classify implements the tech-stack classifier of spec.md §4.6
// (C6): a deterministic, first-match-wins waterfall over a repository's
// category set. There is no direct teacher analog for rule-waterfall
// classification, so this is hand-rolled stdlib — see DESIGN.md for the
// justification. The waterfall shape itself mirrors the ordered-checks
// idiom used throughout githubnext-gh-aw's pkg/workflow validation code.
package classify

// Profile is one of the eight closed tech-stack identifiers.
type Profile string

const (
	ProfileAzureFunctions     Profile = "azure-functions"
	ProfileDevOpsMonitoring   Profile = "devops-monitoring"
	ProfileHealthcareEnterprise Profile = "healthcare-enterprise"
	ProfileReactFrontend      Profile = "react-frontend"
	ProfileMiddlewareAPI      Profile = "middleware-api"
	ProfileLegacyMigration    Profile = "legacy-migration"
	ProfileFullstackTypeScript Profile = "fullstack-typescript"
	ProfileGeneralTypeScript  Profile = "general-typescript"
)

// Result is the full classifier output; the classifier never fails, so
// there is no error return.
type Result struct {
	Profile         Profile
	Confidence      float64
	Indicators      []string
	PrimaryLanguage string
	Framework       string
}

type rule struct {
	profile    Profile
	confidence float64
	matches    func(categories map[string]bool) []string
}

// rules holds the first seven steps of the eight-step waterfall of spec.md
// §4.6, in order; the eighth, the general-typescript default, is applied by
// Classify when none of them matches.
// First match wins; categories is the repository's category set.
var rules = []rule{
	{
		profile: ProfileAzureFunctions, confidence: 0.95,
		matches: func(c map[string]bool) []string {
			if c["azure"] && c["functions"] {
				return []string{"azure", "functions"}
			}
			return nil
		},
	},
	{
		profile: ProfileDevOpsMonitoring, confidence: 0.90,
		matches: func(c map[string]bool) []string {
			return firstOf(c, "devops", "monitoring")
		},
	},
	{
		profile: ProfileHealthcareEnterprise, confidence: 0.85,
		matches: func(c map[string]bool) []string {
			return firstOf(c, "healthcare", "dental")
		},
	},
	{
		profile: ProfileReactFrontend, confidence: 0.90,
		matches: func(c map[string]bool) []string {
			return firstOf(c, "frontend", "react")
		},
	},
	{
		profile: ProfileMiddlewareAPI, confidence: 0.80,
		matches: func(c map[string]bool) []string {
			return firstOf(c, "middleware")
		},
	},
	{
		profile: ProfileLegacyMigration, confidence: 0.85,
		matches: func(c map[string]bool) []string {
			return firstOf(c, "migration", "legacy")
		},
	},
	{
		profile: ProfileFullstackTypeScript, confidence: 0.90,
		matches: func(c map[string]bool) []string {
			if c["backend"] && c["fullstack"] {
				return []string{"backend", "fullstack"}
			}
			return nil
		},
	},
}

// firstOf returns a one-element slice naming the first category in names
// that is present in c, or nil if none are.
func firstOf(c map[string]bool, names ...string) []string {
	for _, n := range names {
		if c[n] {
			return []string{n}
		}
	}
	return nil
}

// Classify runs the closed waterfall over categories and returns the
// matching profile, or general-typescript if nothing else matches.
func Classify(categories []string, primaryLanguage, framework string) Result {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}

	for _, r := range rules {
		if ind := r.matches(set); ind != nil {
			return Result{
				Profile: r.profile, Confidence: r.confidence,
				Indicators: ind, PrimaryLanguage: primaryLanguage, Framework: framework,
			}
		}
	}

	return Result{
		Profile: ProfileGeneralTypeScript, Confidence: 0.70,
		Indicators: nil, PrimaryLanguage: primaryLanguage, Framework: framework,
	}
}
