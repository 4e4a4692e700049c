package dto

// RegisterDTO 注册请求
type RegisterDTO struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
}

// CredentialDTO 登录请求
type CredentialDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserDTO 对外公开的用户信息，不含密码
type UserDTO struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
}

// AuthorDTO 帖子与评论中的作者摘要
type AuthorDTO struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
}
