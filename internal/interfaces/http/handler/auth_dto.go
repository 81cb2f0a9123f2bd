package handler

// =====================
// Auth Request DTOs
// =====================

// SignUpRequest represents the request body for creating an account
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email,max=200" example:"riley@example.com"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"max=100" example:"Riley Chen"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"riley@example.com"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest asks for a password reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest sets a new password with a reset token
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// UpdateProfileRequest renames the signed-in account
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"max=100" example:"Riley Chen"`
}
