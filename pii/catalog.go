package pii

import (
	"regexp"
	"strings"
)

// Kind is a detection category.
type Kind string

const (
	KindEmail        Kind = "email"
	KindPhone        Kind = "phone"
	KindAPIKey       Kind = "api_key"
	KindSlackToken   Kind = "slack_token"
	KindAWSKey       Kind = "aws_key"
	KindOpenAIKey    Kind = "openai_key"
	KindAnthropicKey Kind = "anthropic_key"
	KindIDNumber     Kind = "id_number"
	KindCreditCard   Kind = "credit_card"
	KindSSN          Kind = "ssn"
	KindIPAddress    Kind = "ip_address"
	KindBearerToken  Kind = "bearer_token"
	KindJWTToken     Kind = "jwt_token"
)

// Detector is one table entry: a pattern for a kind of sensitive data.
// Critical kinds block an audited dataset from proceeding to production.
type Detector struct {
	Kind        Kind
	Pattern     *regexp.Regexp
	Critical    bool
	Replacement string
}

// redactionCatalog is the inline-protection set applied to content on its
// way into storage. Narrower than the audit catalog: inline redaction
// favours precision over recall.
var redactionCatalog = []Detector{
	{KindEmail, regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), false, "[EMAIL_REDACTED]"},
	{KindPhone, regexp.MustCompile(`(?i)\b(?:\+?1[-.]?)?\(?[0-9]{3}\)?[-.]?[0-9]{3}[-.]?[0-9]{4}\b`), false, "[PHONE_REDACTED]"},
	{KindAPIKey, regexp.MustCompile(`(?i)\b(?:sk-|pk_|key-)[a-zA-Z0-9]{20,}\b`), true, "[API_KEY_REDACTED]"},
	{KindAWSKey, regexp.MustCompile(`(?i)\b(?:AKIA|ASIA)[A-Z0-9]{16}\b`), true, "[AWS_KEY_REDACTED]"},
	{KindCreditCard, regexp.MustCompile(`\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13})\b`), true, "[CREDIT_CARD_REDACTED]"},
	{KindSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), false, "[SSN_REDACTED]"},
	{KindIPAddress, regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`), false, "[IP_REDACTED]"},
	{KindBearerToken, regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9\-._~+/]+=*`), true, "[BEARER_TOKEN_REDACTED]"},
}

// auditCatalog is the stricter set used by the pre-production scanner.
var auditCatalog = []Detector{
	{KindEmail, regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), false, "[EMAIL_REDACTED]"},
	{KindPhone, regexp.MustCompile(`(?i)\b(?:\+?27|0)(?:\s*\d){9}\b`), false, "[PHONE_REDACTED]"},
	{KindAPIKey, regexp.MustCompile(`(?i)\b(?:api[_-]?key|apikey|access[_-]?token|secret[_-]?key)[\s:=]+["']?[A-Za-z0-9_\-]{20,}["']?`), true, "[API_KEY_REDACTED]"},
	{KindSlackToken, regexp.MustCompile(`(?i)\bxox[baprs]-[0-9]{10,13}-[0-9]{10,13}-[A-Za-z0-9]{24,}\b`), true, "[SLACK_TOKEN_REDACTED]"},
	{KindAWSKey, regexp.MustCompile(`\b(?:AKIA|A3T|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}\b`), true, "[AWS_KEY_REDACTED]"},
	{KindOpenAIKey, regexp.MustCompile(`\bsk-[A-Za-z0-9]{48}\b`), true, "[OPENAI_KEY_REDACTED]"},
	{KindAnthropicKey, regexp.MustCompile(`\bsk-ant-[A-Za-z0-9\-]{95,}`), true, "[ANTHROPIC_KEY_REDACTED]"},
	{KindIDNumber, regexp.MustCompile(`\b(?:(?:19|20)\d{2}(?:0[1-9]|1[0-2])(?:0[1-9]|[12]\d|3[01]))\d{7}\b`), true, "[ID_NUMBER_REDACTED]"},
	{KindCreditCard, regexp.MustCompile(`\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13})\b`), true, "[CREDIT_CARD_REDACTED]"},
	{KindIPAddress, regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`), false, "[IP_REDACTED]"},
	{KindJWTToken, regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`), true, "[JWT_TOKEN_REDACTED]"},
}

// RedactionCatalog returns the inline-protection detector set, in
// application order.
func RedactionCatalog() []Detector {
	return redactionCatalog
}

// AuditCatalog returns the audit detector set, in application order.
func AuditCatalog() []Detector {
	return auditCatalog
}

// CriticalKinds returns the kinds in the audit catalog whose presence
// blocks a dataset from production use.
func CriticalKinds() []Kind {
	var kinds []Kind
	for _, d := range auditCatalog {
		if d.Critical {
			kinds = append(kinds, d.Kind)
		}
	}
	return kinds
}

// placeholder formats the audit replacement token for a kind.
func placeholder(kind Kind) string {
	return "[" + strings.ToUpper(string(kind)) + "_REDACTED]"
}
