package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inkletapp/inklet/internal/apperr"
	"github.com/inkletapp/inklet/internal/models"
)

type UserService struct {
	DB *gorm.DB
}

// ProfileUpdate carries a partial profile edit; nil fields are untouched.
type ProfileUpdate struct {
	Username *string
	Email    *string
}

func (s *UserService) GetProfile(userID uint) (models.Sanitized, error) {
	var user models.User
	err := s.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Sanitized{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return models.Sanitized{}, err
	}
	return user.Sanitize(), nil
}

// UpdateProfile edits username/email. A username or email already held by a
// different account is a conflict; the unique indexes remain the backstop.
func (s *UserService) UpdateProfile(userID uint, up ProfileUpdate) (models.Sanitized, error) {
	if up.Username != nil {
		var existing models.User
		err := s.DB.Where("username = ?", *up.Username).First(&existing).Error
		if err == nil && existing.ID != userID {
			return models.Sanitized{}, apperr.Conflict("Username already taken")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Sanitized{}, err
		}
	}
	if up.Email != nil {
		var existing models.User
		err := s.DB.Where("email = ?", *up.Email).First(&existing).Error
		if err == nil && existing.ID != userID {
			return models.Sanitized{}, apperr.Conflict("Email already taken")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Sanitized{}, err
		}
	}

	var user models.User
	err := s.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Sanitized{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return models.Sanitized{}, err
	}

	if up.Username != nil {
		user.Username = *up.Username
	}
	if up.Email != nil {
		user.Email = *up.Email
	}
	if err := s.DB.Save(&user).Error; err != nil {
		return models.Sanitized{}, err
	}
	return user.Sanitize(), nil
}

// ChangePassword swaps the credential after verifying the current one.
func (s *UserService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if currentPassword == newPassword {
		return apperr.BadRequest("New password should be different from current password")
	}

	var user models.User
	err := s.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return apperr.BadRequest("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.DB.Save(&user).Error
}
