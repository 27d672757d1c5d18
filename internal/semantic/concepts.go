package semantic

// Concept names a semantic category a tool or field can belong to.
type Concept string

const (
	Sensitive  Concept = "SENSITIVE"
	Mutation   Concept = "MUTATION"
	Idempotent Concept = "IDEMPOTENT"
)

// Match thresholds. Field names are short, so field matching is strict;
// tool text mixes a name with free prose and is matched more loosely.
const (
	FieldConceptThreshold = 0.75
	ToolConceptThreshold  = 0.5
)

// conceptSeeds are the reference phrases of each concept. Every phrase
// becomes its own reference vector.
var conceptSeeds = map[Concept][]string{
	Sensitive: {
		"password", "passwd", "passphrase", "passcode",
		"secret", "client secret", "shared secret",
		"api key", "apikey", "secret key", "private key", "signing key", "encryption key",
		"access token", "refresh token", "auth token", "api token", "bearer token", "session token",
		"credential", "auth credential",
		"ssn", "social security number", "tax identification number",
		"credit card", "card number", "cvv", "cvc",
		"pin code", "otp", "one time password",
		"bank account number", "routing number", "iban",
	},
	Mutation: {
		"create", "update", "delete", "remove", "modify", "write", "insert",
		"send", "submit", "add", "edit", "cancel", "transfer",
		"upload", "publish", "deploy", "execute", "purge", "destroy",
		"patch", "revoke", "archive", "move", "rename", "assign",
	},
	Idempotent: {
		"idempotent", "idempotency", "idempotency key", "upsert",
		"ensure", "put", "replace", "overwrite",
		"safe to retry", "retry safe", "dedupe", "deduplication key",
	},
}

// Concepts lists the known concepts in a stable order.
func Concepts() []Concept {
	return []Concept{Sensitive, Mutation, Idempotent}
}
