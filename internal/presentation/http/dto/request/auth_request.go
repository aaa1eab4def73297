package request

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ReauthenticateRequest confirms the caller's password. ForCloseTill asks for
// the short-lived grant needed to close a till.
type ReauthenticateRequest struct {
	Password     string `json:"password" binding:"required"`
	ForCloseTill bool   `json:"for_close_till"`
}

// CreateStaffRequest represents a new cashier or admin account
type CreateStaffRequest struct {
	FirstName string `json:"first_name" binding:"required,min=2,max=255"`
	LastName  string `json:"last_name" binding:"max=255"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=admin cashier"`
}
