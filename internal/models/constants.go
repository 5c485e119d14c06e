package models

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

// DateLayout is the calendar date format used by every sink.
const DateLayout = "2006-01-02"

const (
	MinPassengers = 1
	MaxPassengers = 10
)

const (
	// DefaultSessionTTL is how long an idle chat session survives in Redis, in seconds
	DefaultSessionTTL = 24 * 60 * 60

	// DefaultPaginationSize is the admin listing page size
	DefaultPaginationSize = 5

	// RateLimitMessages is the per-chat message budget per window
	RateLimitMessages = 20

	// RateLimitWindow is in seconds
	RateLimitWindow = 60
)
