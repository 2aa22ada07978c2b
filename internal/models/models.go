package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Tag{},
		&Task{},
		&TaskDependency{},
		&TaskComment{},
		&TaskTimeEntry{},
		&TaskActivity{},
	}
}
