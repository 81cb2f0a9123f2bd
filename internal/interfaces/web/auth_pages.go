package web

import (
	"errors"
	"net/http"

	appidentity "github.com/findash/backend/internal/application/identity"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type signUpForm struct {
	Email    string `form:"email" binding:"required,email,max=200"`
	Password string `form:"password" binding:"required"`
	FullName string `form:"full_name" binding:"max=100"`
}

type forgotPasswordForm struct {
	Email string `form:"email" binding:"required,email"`
}

type resetPasswordForm struct {
	Token    string `form:"token" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// authView is shared by the sign-in, sign-up and password pages
type authView struct {
	Email    string
	FullName string
	Token    string
}

const invalidFormMessage = "Check the highlighted fields and try again."

func (p *Pages) loginForm(c *gin.Context) {
	p.render(c, http.StatusOK, "login", p.page(c, "Sign in", authView{}))
}

func (p *Pages) login(c *gin.Context) {
	var form loginForm
	if err := bindForm(c, &form); err != nil {
		p.authError(c, "login", "Sign in", http.StatusBadRequest, authView{Email: form.Email}, invalidFormMessage)
		return
	}
	session, err := p.deps.Auth.Login(c.Request.Context(), appidentity.LoginInput{Email: form.Email, Password: form.Password})
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, identity.ErrInvalidCredential) {
			status = http.StatusInternalServerError
		}
		p.authError(c, "login", "Sign in", status, authView{Email: form.Email}, formError(err))
		return
	}
	middleware.SetSessionCookie(c, p.deps.Cookie, session.AccessToken, session.ExpiresAt)
	c.Redirect(http.StatusSeeOther, p.gate.HomePath)
}

func (p *Pages) signUpForm(c *gin.Context) {
	p.render(c, http.StatusOK, "signup", p.page(c, "Create account", authView{}))
}

func (p *Pages) signUp(c *gin.Context) {
	var form signUpForm
	if err := bindForm(c, &form); err != nil {
		p.authError(c, "signup", "Create account", http.StatusBadRequest,
			authView{Email: form.Email, FullName: form.FullName}, invalidFormMessage)
		return
	}
	session, err := p.deps.Auth.SignUp(c.Request.Context(), appidentity.SignUpInput{
		Email:    form.Email,
		Password: form.Password,
		FullName: form.FullName,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, identity.ErrEmailTaken) {
			status = http.StatusConflict
		}
		p.authError(c, "signup", "Create account", status,
			authView{Email: form.Email, FullName: form.FullName}, formError(err))
		return
	}
	middleware.SetSessionCookie(c, p.deps.Cookie, session.AccessToken, session.ExpiresAt)
	c.Redirect(http.StatusSeeOther, p.gate.HomePath)
}

func (p *Pages) forgotPasswordForm(c *gin.Context) {
	p.render(c, http.StatusOK, "forgot_password", p.page(c, "Reset password", authView{}))
}

// forgotPassword answers the same way whether or not the account exists
func (p *Pages) forgotPassword(c *gin.Context) {
	var form forgotPasswordForm
	if err := bindForm(c, &form); err != nil {
		p.authError(c, "forgot_password", "Reset password", http.StatusBadRequest, authView{Email: form.Email}, invalidFormMessage)
		return
	}
	if err := p.deps.Auth.RequestPasswordReset(c.Request.Context(), form.Email); err != nil {
		logger.WithLogger(c.Request.Context(), p.deps.Logger).Warn("Password reset request failed", zap.Error(err))
	}
	seeOther(c, "/forgot-password", "reset_sent")
}

func (p *Pages) resetPasswordForm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		p.authError(c, "reset_password", "Choose a new password", http.StatusBadRequest, authView{},
			appidentity.ErrResetLinkInvalid.Message)
		return
	}
	p.render(c, http.StatusOK, "reset_password", p.page(c, "Choose a new password", authView{Token: token}))
}

func (p *Pages) resetPassword(c *gin.Context) {
	var form resetPasswordForm
	if err := bindForm(c, &form); err != nil {
		p.authError(c, "reset_password", "Choose a new password", http.StatusBadRequest, authView{Token: form.Token}, invalidFormMessage)
		return
	}
	err := p.deps.Auth.ResetPassword(c.Request.Context(), appidentity.ResetPasswordInput{
		Token:    form.Token,
		Password: form.Password,
	})
	if err != nil {
		view := authView{Token: form.Token}
		if errors.Is(err, appidentity.ErrResetLinkInvalid) {
			view.Token = ""
		}
		p.authError(c, "reset_password", "Choose a new password", http.StatusBadRequest, view, formError(err))
		return
	}
	seeOther(c, p.gate.LoginPath, "password_reset")
}

// signOut revokes the current token and always clears the cookie
func (p *Pages) signOut(c *gin.Context) {
	if principal := middleware.GetPrincipal(c); principal != nil {
		input := appidentity.LogoutInput{UserID: principal.ID}
		if claims := middleware.GetClaims(c); claims != nil {
			input.TokenJTI = claims.ID
			input.Remaining = claims.RemainingTTL()
		}
		if err := p.deps.Auth.Logout(c.Request.Context(), input); err != nil {
			logger.WithLogger(c.Request.Context(), p.deps.Logger).Warn("Sign out failed", zap.Error(err))
		}
	}
	middleware.ClearSessionCookie(c, p.deps.Cookie)
	seeOther(c, p.gate.LoginPath, "signed_out")
}

func (p *Pages) authError(c *gin.Context, name, title string, status int, view authView, msg string) {
	pd := p.page(c, title, view)
	pd.Error = msg
	p.render(c, status, name, pd)
}
