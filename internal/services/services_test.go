// internal/services/services_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/internhub/internhub-backend/internal/config"
	"github.com/internhub/internhub-backend/internal/database"
	"github.com/internhub/internhub-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Grading: config.GradingConfig{
			SupervisorWeight: 0.6,
			CompanyWeight:    0.4,
			GradeBands:       "A+:90,A:85,B+:80,B:75,C+:70,C:60,D:50,F:0",
		},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	user := &models.User{
		Username: fmt.Sprintf("%s_%s", userType, suffix),
		Email:    fmt.Sprintf("%s_%s@example.com", userType, suffix),
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Passw0rd!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestJob(t *testing.T, db *gorm.DB, companyID uuid.UUID) *models.Job {
	t.Helper()

	job := &models.Job{
		CompanyID:     companyID,
		Title:         "Backend Intern",
		Department:    "Engineering",
		Description:   "Summer internship",
		OpenPositions: 2,
		IsActive:      true,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// createHiredApplication seeds an application already in the hired state with
// both approvals recorded, for tests that start after the hiring pipeline.
func createHiredApplication(t *testing.T, db *gorm.DB, studentID, companyID, supervisorID, jobID uuid.UUID) *models.Application {
	t.Helper()

	now := time.Now()
	start := now.AddDate(0, 0, 7)
	end := start.AddDate(0, 3, 0)
	application := &models.Application{
		StudentID:        studentID,
		JobID:            jobID,
		CompanyID:        companyID,
		SupervisorID:     &supervisorID,
		SupervisorStatus: models.ApprovalStatusApproved,
		CompanyStatus:    models.ApprovalStatusApproved,
		OverallStatus:    models.ApprovalStatusApproved,
		Status:           models.ApplicationStatusHired,
		HiredAt:          &now,
		Position:         "Backend Intern",
		Department:       "Engineering",
		StartDate:        &start,
		EndDate:          &end,
	}
	require.NoError(t, db.Create(application).Error)
	return application
}

func supervisorScores() map[string]int {
	// Totals 48 of 60 (80%).
	return map[string]int{
		"report_quality":      8,
		"attendance":          8,
		"presentation":        8,
		"technical_knowledge": 8,
		"problem_solving":     8,
		"professionalism":     8,
	}
}

func companyScores() map[string]int {
	// Totals 35 of 40 (87.5%).
	return map[string]int{
		"work_quality": 9,
		"punctuality":  9,
		"teamwork":     9,
		"initiative":   8,
	}
}
