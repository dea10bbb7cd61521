package utils

import (
	"mime"
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces secret values in logged payloads.
const RedactedPlaceholder = "[REDACTED]"

var (
	// textContentTypePatterns is a slice of regular expressions that match content types
	// considered to be text-based. This includes "text/*", JSON and form-encoded bodies.
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	textContentTypePatterns = []*regexp.Regexp{
		regexp.MustCompile("^text/.+"),
		regexp.MustCompile("^application/json$"),
		regexp.MustCompile(`^application/graphql-response\+json$`),
		regexp.MustCompile("^application/x-www-form-urlencoded$"),
	}

	// jsonSecretPattern matches JSON string members that carry credentials or tokens.
	//nolint:gochecknoglobals,lll // This is immutable, pre-compiled regex pattern and used as a constant.
	jsonSecretPattern = regexp.MustCompile(`("(?:password|idToken|refreshToken|id_token|refresh_token|access_token|oobCode)"\s*:\s*)"(?:[^"\\]|\\.)*"`)

	// formSecretPattern matches form-encoded or query parameters that carry credentials or tokens.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	formSecretPattern = regexp.MustCompile(`((?:^|[?&\s])(?:key|password|refresh_token|id_token)=)[^&\s]*`)

	// bearerPattern matches bearer tokens in Authorization headers.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	bearerPattern = regexp.MustCompile(`(?i)(Authorization:\s*Bearer\s+)\S+`)
)

// IsTextContentType checks if the given content type represents a text-based format.
// It supports common text content types like "text/*", "application/json", and form-encoded bodies.
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// RedactSecrets masks passwords, tokens and API keys in a textual HTTP dump.
func RedactSecrets(text string) string {
	text = jsonSecretPattern.ReplaceAllString(text, `$1"`+RedactedPlaceholder+`"`)
	text = formSecretPattern.ReplaceAllString(text, "${1}"+RedactedPlaceholder)
	text = bearerPattern.ReplaceAllString(text, "${1}"+RedactedPlaceholder)

	return text
}

// NormalizeEmail trims surrounding whitespace and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskEmail hides the local part of an email address for log output, keeping the first character.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return RedactedPlaceholder
	}

	return email[:1] + "***" + email[at:]
}
