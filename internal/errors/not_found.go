package errors

var (
	ErrCategoryNotFound = newException(KindNotFound, "category not found")
	ErrUserNotFound     = newException(KindNotFound, "user not found")
	ErrTagNotFound      = newException(KindNotFound, "tag not found")
)
