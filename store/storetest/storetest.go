// Package storetest opens throwaway sqlite databases with the forum schema.
package storetest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store"
)

// NewDB opens a migrated sqlite database in t's temp dir.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "forohub.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps sqlite from reporting "database is locked"
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, store.AutoMigrate(db))
	return db
}

func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func SeedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{FullName: "User " + email, Email: email, Password: "hash", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func SeedCourse(t *testing.T, db *gorm.DB, name string) *models.Course {
	t.Helper()
	c := &models.Course{Name: name, Category: "programming"}
	require.NoError(t, db.Create(c).Error)
	return c
}

func SeedTopic(t *testing.T, db *gorm.DB, author *models.User, course *models.Course, title string, at time.Time) *models.Topic {
	t.Helper()
	tp := &models.Topic{
		Title:     title,
		Message:   "message for " + title,
		Slug:      title,
		Status:    models.StatusOpen,
		AuthorID:  author.ID,
		CourseID:  course.ID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, db.Omit("Author", "Course", "Replies").Create(tp).Error)
	return tp
}

func SeedReply(t *testing.T, db *gorm.DB, author *models.User, topic *models.Topic, message string, at time.Time) *models.Reply {
	t.Helper()
	r := &models.Reply{
		TopicID:   topic.ID,
		AuthorID:  author.ID,
		Message:   message,
		Status:    models.StatusOpen,
		CreatedAt: at,
	}
	require.NoError(t, db.Omit("Author").Create(r).Error)
	return r
}
