// internal/app/system/limits/limits.go
package limits

// Request and listing bounds shared by the JSON handlers.
const (
	// MaxJSONBody is the largest JSON request body accepted.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxAuditEvents caps one page of the audit trail.
	MaxAuditEvents = 500
)
