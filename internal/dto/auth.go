package dto

// ── auth module DTOs ──

// LoginRequest operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=4,max=72"`
}

// LoginResponse issued session.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Source   string `json:"source"`
}

// MeResponse current session identity.
type MeResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Source   string `json:"source"`
}

// CreateAccountRequest admin-created operator account.
type CreateAccountRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin operator"`
	Source   string `json:"source"   binding:"required,min=1,max=50"`
}
