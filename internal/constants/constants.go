package constants

// Session / context keys
const (
	ContextKeyUserID = "user_id"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Board limits
const (
	MaxBoardTitleLength  = 255
	MaxColumnTitleLength = 255
	MaxCardTitleLength   = 255
	MaxCommentLength     = 2000
)
