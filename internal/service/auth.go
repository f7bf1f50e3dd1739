package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inkletapp/inklet/internal/apperr"
	"github.com/inkletapp/inklet/internal/mail"
	"github.com/inkletapp/inklet/internal/models"
)

type AuthService struct {
	DB          *gorm.DB
	Mailer      mail.Mailer
	JWTSecret   []byte
	TokenTTL    time.Duration
	ResetTTL    time.Duration
	FrontendURL string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an account. Username and email are both unique; a clash
// on either is a conflict.
func (s *AuthService) Register(in RegisterInput) (models.Sanitized, error) {
	var count int64
	err := s.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", in.Username, in.Email).
		Count(&count).Error
	if err != nil {
		return models.Sanitized{}, err
	}
	if count > 0 {
		return models.Sanitized{}, apperr.Conflict("Account already exists with this email or username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Sanitized{}, err
	}
	user := models.User{Username: in.Username, Email: in.Email, PasswordHash: string(hash)}
	if err := s.DB.Create(&user).Error; err != nil {
		return models.Sanitized{}, err
	}
	return user.Sanitize(), nil
}

// Login checks credentials against either username or email and returns a
// signed token plus the sanitized account.
func (s *AuthService) Login(login, password string) (string, models.Sanitized, error) {
	var user models.User
	err := s.DB.Where("username = ? OR email = ?", login, login).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", models.Sanitized{}, apperr.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return "", models.Sanitized{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", models.Sanitized{}, apperr.Unauthenticated("Invalid credentials")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", models.Sanitized{}, err
	}
	return token, user.Sanitize(), nil
}

// IssueToken signs an HS256 JWT carrying the user ID.
func (s *AuthService) IssueToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

// ParseToken validates a token signed by IssueToken and returns the user ID.
func ParseToken(secret []byte, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperr.Unauthenticated("Invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperr.Unauthenticated("Invalid or expired token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id < 1 {
		return 0, apperr.Unauthenticated("Invalid or expired token")
	}
	return uint(id), nil
}

// InitiatePasswordReset stores a hashed single-use token and mails the plain
// one. It reports success whether or not the account exists, so the endpoint
// cannot be used to probe for registered emails. Mail failures are logged
// and swallowed for the same reason.
func (s *AuthService) InitiatePasswordReset(email string) error {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	plain, hashed, err := newResetToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(s.ResetTTL)
	user.ResetTokenHash = &hashed
	user.ResetTokenExpiry = &expiry
	if err := s.DB.Save(&user).Error; err != nil {
		return err
	}

	subject, body := mail.ResetPasswordEmail(s.FrontendURL, plain)
	if err := s.Mailer.Send(user.Email, subject, body); err != nil {
		log.Printf("could not send reset email to %s: %v", user.Email, err)
	}
	return nil
}

// ResetPassword consumes a reset token. The stored hash and the expiry must
// both check out.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	hashed := hashResetToken(token)
	var user models.User
	err := s.DB.Where("reset_token_hash = ? AND reset_token_expiry > ?", hashed, time.Now()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.BadRequest("This password reset link is either invalid or expired")
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.ResetTokenHash = nil
	user.ResetTokenExpiry = nil
	return s.DB.Save(&user).Error
}

func newResetToken() (plain, hashed string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, hashResetToken(plain), nil
}

func hashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
