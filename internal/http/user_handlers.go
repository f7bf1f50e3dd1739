package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkletapp/inklet/internal/service"
)

type UpdateProfileInput struct {
	Username *string `json:"username" binding:"omitempty,min=6,max=20"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (e *Env) GetProfile(c *gin.Context) {
	viewer := viewerFrom(c)
	user, err := e.Users.GetProfile(viewer.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Personal data fetched successfully", user, nil)
}

func (e *Env) UpdateProfile(c *gin.Context) {
	viewer := viewerFrom(c)
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	user, err := e.Users.UpdateProfile(viewer.ID, service.ProfileUpdate{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Personal data updated successfully", user, nil)
}

func (e *Env) ChangePassword(c *gin.Context) {
	viewer := viewerFrom(c)
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if err := e.Users.ChangePassword(viewer.ID, input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", nil, nil)
}
