package errors

var (
	ErrInvalidStatus   = newException(KindInvalidValue, "invalid status")
	ErrInvalidPriority = newException(KindInvalidValue, "invalid priority")
	ErrTitleRequired   = newException(KindInvalidValue, "title is required")
	ErrTitleTooLong    = newException(KindInvalidValue, "title must not exceed 255 characters")
	ErrNegativeHours   = newException(KindInvalidValue, "hours must not be negative")
	ErrNameRequired    = newException(KindInvalidValue, "name is required")
	ErrContentRequired = newException(KindInvalidValue, "content is required")
	ErrTagTooLong      = newException(KindInvalidValue, "tag names must not exceed 50 characters")
)
