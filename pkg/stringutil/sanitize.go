package stringutil

import (
	"regexp"

	"github.com/githubnext/coderadar/pkg/logger"
)

var sanitizeLog = logger.New("stringutil:sanitize")

// Regex patterns for detecting potential secret key names
var (
	// Match uppercase snake_case identifiers that look like secret names (e.g., MY_SECRET_KEY, GITHUB_TOKEN, API_KEY)
	// Excludes common workflow-related keywords
	secretNamePattern = regexp.MustCompile(`\b([A-Z][A-Z0-9]*_[A-Z0-9_]+)\b`)

	// Match PascalCase identifiers ending with security-related suffixes (e.g., GitHubToken, ApiKey, DeploySecret)
	pascalCaseSecretPattern = regexp.MustCompile(`\b([A-Z][a-z0-9]*(?:[A-Z][a-z0-9]*)*(?:Token|Key|Secret|Password|Credential|Auth))\b`)

	// Common non-sensitive identifiers to exclude from redaction
	commonNonSecretWords = map[string]bool{
		"GITHUB":       true,
		"ENV":          true,
		"PATH":         true,
		"HOME":         true,
		"SHELL":        true,
		"REPOSITORY":   true,
		"REPO":         true,
		"BRANCH":       true,
		"STATUS":       true,
		"ANALYSIS":     true,
		"RECOMMEND":    true,
		"FILE_LIMIT":   true,
		"CACHE_TTL_MS": true,
	}
)

// SanitizeErrorMessage removes potential secret key names from error messages before they
// are surfaced to a user-visible field, as recommendation and repository metadata may embed
// raw remote-client error text. The full, unredacted error still goes to the debug log.
func SanitizeErrorMessage(message string) string {
	if message == "" {
		return message
	}

	sanitizeLog.Printf("Sanitizing error message: length=%d", len(message))

	// Redact uppercase snake_case patterns (e.g., MY_SECRET_KEY, API_TOKEN)
	sanitized := secretNamePattern.ReplaceAllStringFunc(message, func(match string) string {
		// Don't redact common workflow keywords
		if commonNonSecretWords[match] {
			return match
		}
		sanitizeLog.Printf("Redacted snake_case secret pattern: %s", match)
		return "[REDACTED]"
	})

	// Redact PascalCase patterns ending with security suffixes (e.g., GitHubToken, ApiKey)
	sanitized = pascalCaseSecretPattern.ReplaceAllString(sanitized, "[REDACTED]")

	if sanitized != message {
		sanitizeLog.Print("Error message sanitization applied redactions")
	}

	return sanitized
}
