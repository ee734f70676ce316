package logging

import (
	"regexp"
)

const (
	// MaxURLLogLength is the maximum length of a request URL to log
	MaxURLLogLength = 200
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match the Honeycomb team key header in dumped requests/errors
	teamKeyPattern = regexp.MustCompile(`(?i)(x-honeycomb-team:?\s*)[A-Za-z0-9-_]+`)

	// Pattern to match potential API keys in key=value form
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{16,}`)

	// Pattern to match bearer tokens
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)

	// Pattern to match credentials embedded in URLs (user:pass@host)
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@[^/\s]+`)
)

// SanitizeError sanitizes error messages that might contain credentials.
// Use this before logging any error from upstream API operations.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// Sanitize removes API keys, bearer tokens, and URL-embedded credentials
// from a string destined for log output.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	sanitized := teamKeyPattern.ReplaceAllString(s, "${1}"+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = urlCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeURL truncates and sanitizes a request URL for logging.
func SanitizeURL(url string) string {
	if url == "" {
		return ""
	}

	sanitized := Sanitize(url)
	if len(sanitized) > MaxURLLogLength {
		sanitized = sanitized[:MaxURLLogLength] + "..."
	}
	return sanitized
}
