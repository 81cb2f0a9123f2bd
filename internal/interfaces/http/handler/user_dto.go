package handler

// UpdateRoleRequest assigns a role to an account
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,role" example:"FINANCE"`
}
