package handler

import (
	appidentity "github.com/findash/backend/internal/application/identity"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// SignUp godoc
// @ID           signUp
// @Summary      Create an account
// @Description  Registers a STAFF account and signs it in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Account"
// @Success      201 {object} dto.Response{data=appidentity.SessionResult}
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.authService.SignUp(c.Request.Context(), appidentity.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, session.AccessToken, session.ExpiresAt)
	h.Created(c, session)
}

// Login godoc
// @ID           login
// @Summary      Sign in
// @Description  Authenticates with email and password. The token is also set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=appidentity.SessionResult}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, session.AccessToken, session.ExpiresAt)
	h.Success(c, session)
}

// Logout godoc
// @ID           logout
// @Summary      Sign out
// @Description  Revokes the presented token and clears the session cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}
	input := appidentity.LogoutInput{UserID: principal.ID}
	if claims := middleware.GetClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		input.Remaining = claims.RemainingTTL()
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.ClearSessionCookie(c, h.cookie)
	h.Success(c, MessageResponse{Message: "Signed out"})
}

// ForgotPassword godoc
// @ID           forgotPassword
// @Summary      Request a password reset link
// @Description  Always succeeds so the response does not reveal which emails have accounts
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "If an account exists for this email, a reset link has been sent"})
}

// ResetPassword godoc
// @ID           resetPassword
// @Summary      Set a new password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	err := h.authService.ResetPassword(c.Request.Context(), appidentity.ResetPasswordInput{
		Token:    req.Token,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Password updated"})
}

// GetCurrentUser godoc
// @ID           getCurrentUser
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=appidentity.UserInfo}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}
	info, err := h.authService.GetCurrentUser(c.Request.Context(), principal.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// UpdateProfile godoc
// @ID           updateProfile
// @Summary      Update the signed-in account's name
// @Description  Reissues the session so the token carries the new name
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=appidentity.SessionResult}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	principal, ok := h.Principal(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.authService.UpdateProfile(c.Request.Context(), principal, req.FullName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, session.AccessToken, session.ExpiresAt)
	h.Success(c, session)
}
