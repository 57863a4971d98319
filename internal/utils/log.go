package utils

import "strings"

const maskedPrefix = 6

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// MaskSecret keeps a short prefix of a credential so it can be told apart in logs.
func MaskSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	if len(secret) <= maskedPrefix {
		return "***"
	}
	return secret[:maskedPrefix] + "***"
}
