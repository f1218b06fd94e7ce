package detect

import (
	"path"
	"strings"
)

// extensionLanguages is the closed extension-to-language table spec.md
// §4.5 requires. An unrecognized extension maps to "Unknown"; such files
// still produce patterns, since the regex rules are language-agnostic.
var extensionLanguages = map[string]string{
	".ts":   "TypeScript",
	".tsx":  "TypeScript",
	".js":   "JavaScript",
	".jsx":  "JavaScript",
	".py":   "Python",
	".java": "Java",
	".go":   "Go",
}

// DetectLanguage maps a file path to a language name purely by extension.
func DetectLanguage(filePath string) string {
	ext := strings.ToLower(path.Ext(filePath))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return "Unknown"
}

// CodeExtensions is the closed set of extensions the file pipeline (C4)
// scans, per spec.md §4.4 step 2.
var CodeExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".java": true, ".go": true,
}

// IsCodeFile reports whether filePath has one of CodeExtensions' suffixes.
func IsCodeFile(filePath string) bool {
	return CodeExtensions[strings.ToLower(path.Ext(filePath))]
}

// excludedPathFragments is the closed exclusion list of spec.md §4.4 step 2.
var excludedPathFragments = []string{"node_modules", "dist", "build"}

// IsExcludedPath reports whether filePath contains an excluded directory
// name anywhere in its path. The test is a plain substring match, not a
// path-segment match, so "src/rebuild.ts" is excluded as well.
func IsExcludedPath(filePath string) bool {
	for _, frag := range excludedPathFragments {
		if strings.Contains(filePath, frag) {
			return true
		}
	}
	return false
}
