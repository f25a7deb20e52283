package respond

import (
	"regexp"
)

var (
	// Order matters: the Anthropic pattern is a superset prefix of the
	// generic sk- pattern, so it must run first.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	genericKeyPattern   = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	// Password portion of a connection DSN.
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError masks enrichment API keys and database credentials in an
// error message before it is logged.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = genericKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
