// Package testutil holds fixtures shared by repository, service and handler tests.
package testutil

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rentify_backend/database"
	"rentify_backend/internal/logger"
	"rentify_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitWithWriter("test", io.Discard)

	db, err := database.Open(database.DriverSQLite, ":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// UniqueEmail returns a fresh address for each call.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, seq.Add(1))
}

// CreateUser stores the user, hashing PasswordHash when it holds a raw password.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()
	if user.PasswordHash == "" {
		user.PasswordHash = "password123"
	}
	if !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.MinCost)
		require.NoError(t, err)
		user.PasswordHash = string(hashed)
	}
	if user.Email == "" {
		user.Email = UniqueEmail(string(user.Role))
	}
	if user.Name == "" {
		user.Name = "Test User"
	}
	if user.Role == "" {
		user.Role = models.UserRoleTenant
	}
	if user.SubscriptionStatus == "" {
		user.SubscriptionStatus = models.SubscriptionStatusInactive
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// NewProperty returns an approved, available listing owned by ownerID; mutate before CreateProperty.
func NewProperty(ownerID string) *models.Property {
	n := seq.Add(1)
	return &models.Property{
		Title:        fmt.Sprintf("2BHK in Koramangala #%d", n),
		Description:  "Sunny flat close to the metro",
		OwnerID:      ownerID,
		Rent:         models.Money{Amount: 25000, Currency: "INR"},
		Deposit:      50000,
		PropertyType: models.PropertyTypeApartment,
		BHK:          2,
		Furnished:    models.FurnishingSemiFurnished,
		Amenities:    []string{"wifi", "parking"},
		Address: models.Address{
			Street:  "5th Block",
			City:    "Bengaluru",
			State:   "Karnataka",
			Country: "India",
			Pincode: "560095",
		},
		Area:        models.Area{Size: 1100, Unit: models.AreaUnitSqft},
		Available:   true,
		Approved:    true,
		ContactInfo: models.ContactInfo{Phone: "+919876543210", Email: "owner@test.com"},
	}
}

// CreateProperty persists p as given.
func CreateProperty(t *testing.T, db *gorm.DB, p *models.Property) *models.Property {
	t.Helper()
	require.NoError(t, db.Omit("Owner").Create(p).Error)
	return p
}

// CreateSubscription inserts a subscription row directly, bypassing payment.
func CreateSubscription(t *testing.T, db *gorm.DB, userID string, status models.SubscriptionStatus, start time.Time, days int) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		UserID:    userID,
		Plan:      models.PlanBasic,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days),
		Status:    status,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}
