package constants

const (
	// Context and session keys
	ContextKeyUserID    = "user_id"
	ContextKeyRole      = "role"
	ContextKeyRequestID = "request_id"

	SessionCookieName = "dispatch_session"
	HeaderRequestID   = "X-Request-ID"

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 100000

	// Activity log
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100

	MinPasswordLength = 8

	// DefaultRevenuePerJob is a placeholder until real job pricing is modelled.
	DefaultRevenuePerJob = 500

	MaxAIGeneratedDrafts = 20
)
