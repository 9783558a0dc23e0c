// Package testutil provides shared test fixtures backed by an in-memory
// sqlite database, so service and repository tests run without Postgres.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/webslinger-cto/fieldserve-api/internal/auth"
	"github.com/webslinger-cto/fieldserve-api/internal/database"
	"github.com/webslinger-cto/fieldserve-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a fresh in-memory sqlite database with the full schema.
// Each test gets its own database, named after the test to keep cache=shared
// connections within one test together.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")
	return db
}

// CreateTestUser persists a user for the given role
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.UserRole) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        fmt.Sprintf("%s-%s@example.com", role, uuid.New().String()[:8]),
		PasswordHash: "$2a$12$notarealhashnotarealhashnotarealhashnotarealha",
		DisplayName:  fmt.Sprintf("Test %s", role),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestTechnician persists a technician with its backing user
func CreateTestTechnician(t *testing.T, db *gorm.DB) *domain.Technician {
	t.Helper()

	user := CreateTestUser(t, db, domain.RoleTechnician)
	tech := &domain.Technician{
		UserID:         user.ID,
		Status:         domain.TechnicianStatusAvailable,
		Classification: domain.ClassificationJourneyman,
		CommissionRate: 0.05,
		HourlyRate:     50,
		EmergencyRate:  1.5,
		LeadFee:        10,
		MaxDailyJobs:   8,
	}
	require.NoError(t, db.Create(tech).Error)
	tech.User = user
	return tech
}

// CreateTestSalesperson persists a salesperson with its backing user
func CreateTestSalesperson(t *testing.T, db *gorm.DB, rate float64) *domain.Salesperson {
	t.Helper()

	user := CreateTestUser(t, db, domain.RoleSalesperson)
	sp := &domain.Salesperson{
		UserID:         user.ID,
		CommissionRate: rate,
		IsActive:       true,
	}
	require.NoError(t, db.Create(sp).Error)
	sp.User = user
	return sp
}

// CreateTestJob persists a job in the given status
func CreateTestJob(t *testing.T, db *gorm.DB, status domain.JobStatus) *domain.Job {
	t.Helper()

	job := &domain.Job{
		CustomerName: "Pat Homeowner",
		Address:      "12 Oak Street",
		City:         "Springfield",
		ServiceType:  "drain_cleaning",
		Priority:     domain.JobPriorityMedium,
		Status:       status,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

// ContextWithRole returns a context authenticated as a user of the given role
func ContextWithRole(user *domain.User) context.Context {
	userCtx := &auth.UserContext{
		UserID:        user.ID,
		DisplayName:   user.DisplayName,
		Email:         user.Email,
		Role:          user.Role,
		EffectiveRole: user.Role,
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

// ContextWithTechnician returns a context authenticated as the technician's user
func ContextWithTechnician(tech *domain.Technician) context.Context {
	userCtx := &auth.UserContext{
		UserID:        tech.UserID,
		DisplayName:   "Test technician",
		Role:          domain.RoleTechnician,
		EffectiveRole: domain.RoleTechnician,
		TechnicianID:  &tech.ID,
	}
	if tech.User != nil {
		userCtx.DisplayName = tech.User.DisplayName
		userCtx.Email = tech.User.Email
	}
	return auth.WithUserContext(context.Background(), userCtx)
}
