package errors

var (
	ErrInvalidPagination = newException(KindInvalidArgument, "page must be at least 1 and page size must be positive")
	ErrInvalidSort       = newException(KindInvalidArgument, "unsupported sort")
	ErrInvalidDateRange  = newException(KindInvalidArgument, "due date range is inverted")
)
