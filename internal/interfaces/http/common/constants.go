package common

const (
	// MaxAuditRequestBody limits JSON request bodies for all audit endpoints.
	MaxAuditRequestBody = 1 << 20
)
