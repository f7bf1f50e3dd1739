package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/policy"
)

// openTestDB returns a fresh in-memory database. The pool is pinned to a
// single connection because every :memory: connection is its own database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Favorite{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, title, status string) *models.Post {
	t.Helper()
	post := models.Post{
		Title:    title,
		Content:  "Content of " + title,
		Slug:     makeSlug(title),
		Status:   status,
		AuthorID: author.ID,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func viewerFor(u *models.User) *policy.Viewer {
	return &policy.Viewer{ID: u.ID, Username: u.Username}
}
