package dto

// RegisterRequest represents a user registration request. Any role other
// than TEACHER registers a student.
type RegisterRequest struct {
	Email        string  `json:"email" binding:"required,notblank,max=255" example:"hanako@example.com"`
	Password     string  `json:"password" binding:"required,max=72" example:"secret123"`
	Name         string  `json:"name" binding:"required,notblank,max=100" example:"Hanako Sato"`
	Role         string  `json:"role" example:"STUDENT"`
	Nickname     *string `json:"nickname,omitempty" binding:"omitempty,max=50" example:"hana"`
	ShowNickname *bool   `json:"showNickname,omitempty" example:"false"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries optional student display settings. An empty
// nickname clears it.
type UpdateProfileRequest struct {
	Nickname     *string `json:"nickname" binding:"omitempty,max=50" example:"hana"`
	ShowNickname *bool   `json:"showNickname" example:"true"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// UserEnvelope wraps a single user
type UserEnvelope struct {
	User UserResponse `json:"user"`
}
