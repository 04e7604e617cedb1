// Package testutil provides in-memory databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trailtalk/forum-backend/internal/database"
	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewDB opens a migrated in-memory SQLite database that lives for the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// every connection to :memory: is a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	n := seq.Add(1)
	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "not-a-hash",
		Role:     role,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCategory(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func CreateDiscussion(t testing.TB, db *gorm.DB, ownerID uint) *models.Discussion {
	t.Helper()
	discussion := &models.Discussion{
		UserID: ownerID,
		Title:  fmt.Sprintf("Trip report %d", seq.Add(1)),
	}
	require.NoError(t, db.Create(discussion).Error)
	return discussion
}

func CreateReply(t testing.TB, db *gorm.DB, discussionID, authorID uint) *models.Reply {
	t.Helper()
	reply := &models.Reply{
		DiscussionID: discussionID,
		UserID:       authorID,
		Content:      fmt.Sprintf("reply %d", seq.Add(1)),
	}
	require.NoError(t, db.Create(reply).Error)
	return reply
}

// CreateReport inserts a pending report directly, bypassing submission checks.
func CreateReport(t testing.TB, db *gorm.DB, reporterID uint, targetType models.TargetType, targetID uint, reason string) *models.Report {
	t.Helper()
	report := &models.Report{
		Reason:         reason,
		ReportableType: targetType,
		ReportableID:   targetID,
		ReporterID:     reporterID,
		Status:         models.ReportPending,
	}
	require.NoError(t, db.Create(report).Error)
	return report
}
