package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkletapp/inklet/internal/service"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=6,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	ResetPasswordToken string `json:"resetPasswordToken" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,min=6"`
}

func (e *Env) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	user, err := e.Auth.Register(service.RegisterInput(input))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Account created successfully", user, nil)
}

func (e *Env) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	token, user, err := e.Auth.Login(input.Login, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Signed in successfully", gin.H{"token": token, "user": user}, nil)
}

// Logout is a no-op server-side: tokens are stateless and simply discarded
// by the client.
func (e *Env) Logout(c *gin.Context) {
	respond(c, http.StatusOK, "Signed out successfully", nil, nil)
}

func (e *Env) ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if err := e.Auth.InitiatePasswordReset(input.Email); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "If that account exists, a reset link is on its way", nil, nil)
}

func (e *Env) ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if err := e.Auth.ResetPassword(input.ResetPasswordToken, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Password has been reset", nil, nil)
}
