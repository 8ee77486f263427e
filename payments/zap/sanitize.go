package zap

import (
	"strings"
)

// controlCharReplacer escapes control characters that can be used for log injection (CWE-117).
// The JSON encoder already escapes these inside string values; messages are
// sanitized anyway so a console encoder can be swapped in safely.
var controlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// sanitizeString escapes control characters in a single string value.
func sanitizeString(s string) string {
	return controlCharReplacer.Replace(s)
}
