package recommend

import "github.com/githubnext/coderadar/internal/classify"

// registry is the closed map[Profile]Generator lookup table spec.md §4.7
// requires: one generator per classify.Profile, selected by value rather
// than by type hierarchy, in the spirit of the "polymorphism over
// capabilities" table-dispatch idiom the teacher uses for trigger/event
// routing (pkg/workflow command dispatch).
var registry = map[classify.Profile]Generator{
	classify.ProfileDevOpsMonitoring:      devOpsMonitoringGenerator{},
	classify.ProfileReactFrontend:         reactFrontendGenerator{},
	classify.ProfileAzureFunctions:        azureFunctionsGenerator{},
	classify.ProfileHealthcareEnterprise:  healthcareEnterpriseGenerator{},
	classify.ProfileMiddlewareAPI:         middlewareAPIGenerator{},
	classify.ProfileLegacyMigration:       legacyMigrationGenerator{},
	classify.ProfileFullstackTypeScript:   fullstackTypeScriptGenerator{},
	classify.ProfileGeneralTypeScript:     generalTypeScriptGenerator{},
}

// ForProfile returns the generator registered for profile, falling back to
// the general-typescript generator for an unrecognized profile (the
// classifier itself never produces one, but callers may pass a stale
// value read back from storage).
func ForProfile(profile classify.Profile) Generator {
	if g, ok := registry[profile]; ok {
		return g
	}
	return registry[classify.ProfileGeneralTypeScript]
}
