package errors

var (
	ErrSelfDependency         = newException(KindInvalidArgument, "a task cannot depend on itself")
	ErrDependencyCycle        = newException(KindInvalidArgument, "dependency would create a cycle")
	ErrSelfParent             = newException(KindInvalidArgument, "a task cannot be its own parent")
	ErrCategoryParentCycle    = newException(KindInvalidArgument, "a category cannot be nested under itself or its descendants")
	ErrDependenciesIncomplete = newException(KindPreconditionFailed, "task has incomplete dependencies")
	ErrCategoryNotEmpty       = newException(KindPreconditionFailed, "category still owns tasks or child categories")
	ErrUserRequired           = newException(KindInvalidArgument, "acting user is required")
)
