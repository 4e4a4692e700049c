package model

// All 需要迁移的全部模型，顺序满足外键依赖
func All() []any {
	return []any{
		&User{},
		&Tag{},
		&Post{},
		&PostTag{},
		&Comment{},
		&PostLike{},
	}
}
