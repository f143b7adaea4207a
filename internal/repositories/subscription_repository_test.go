package repositories

import (
	"context"
	"testing"
	"time"

	"rentify_backend/internal/models"
	"rentify_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newSub(userID string, start time.Time, days int) *models.Subscription {
	return &models.Subscription{
		UserID: userID,
		Plan:   models.PlanBasic,
		PlanSnapshot: datatypes.NewJSONType(models.PlanSnapshot{
			Name: "Basic", Price: 299, Currency: "INR", DurationDays: days, Features: []string{"contact access"},
		}),
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, days),
		Status:           models.SubscriptionStatusActive,
		PaymentReference: "pay_1",
	}
}

func TestSubscriptionRepository_CreateWithMirror(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, &models.User{})
	now := time.Now().UTC()

	sub := newSub(user.ID, now, 30)
	require.NoError(t, repo.CreateWithMirror(ctx, sub))

	got, err := repo.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 299.0, got.PlanSnapshot.Data().Price)
	assert.Equal(t, []string{"contact access"}, got.PlanSnapshot.Data().Features)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", user.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, u.SubscriptionStatus)
	require.NotNil(t, u.SubscriptionID)
	assert.Equal(t, sub.ID, *u.SubscriptionID)
	require.NotNil(t, u.SubscriptionExpiry)
	assert.WithinDuration(t, sub.EndDate, *u.SubscriptionExpiry, time.Second)

	second := newSub(user.ID, now, 90)
	assert.ErrorIs(t, repo.CreateWithMirror(ctx, second), ErrLiveSubscriptionExists)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubscriptionRepository_ActiveVersusLive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, &models.User{})
	now := time.Now().UTC()

	// Lapsed but still flagged active: live (blocks a new purchase) yet not an entitlement.
	lapsed := testutil.CreateSubscription(t, db, user.ID, models.SubscriptionStatusActive, now.AddDate(0, 0, -40), 30)

	live, err := repo.FindLiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, lapsed.ID, live.ID)

	_, err = repo.FindActiveByUser(ctx, user.ID, now)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	latest, err := repo.FindLatestByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, lapsed.ID, latest.ID)
}

func TestSubscriptionRepository_UpdateStatusWithMirror(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, &models.User{})
	sub := newSub(user.ID, time.Now().UTC(), 30)
	require.NoError(t, repo.CreateWithMirror(ctx, sub))

	cancelledAt := time.Now().UTC()
	require.NoError(t, repo.UpdateStatusWithMirror(ctx, sub, models.SubscriptionStatusCancelled, &cancelledAt))
	assert.Equal(t, models.SubscriptionStatusCancelled, sub.Status)

	got, err := repo.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", user.ID).Error)
	assert.Equal(t, models.SubscriptionStatusCancelled, u.SubscriptionStatus)
	assert.Nil(t, u.SubscriptionExpiry)

	_, err = repo.FindLiveByUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	assert.ErrorIs(t, repo.UpdateStatusWithMirror(ctx, &models.Subscription{BaseModel: models.BaseModel{ID: "missing"}, UserID: user.ID},
		models.SubscriptionStatusExpired, nil), ErrSubscriptionNotFound)
}

func TestSubscriptionRepository_StaleSubscriptionLeavesMirrorAlone(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, &models.User{})
	now := time.Now().UTC()

	old := newSub(user.ID, now.AddDate(0, 0, -40), 30)
	require.NoError(t, repo.CreateWithMirror(ctx, old))
	_, err := repo.ExpireLapsed(ctx, now)
	require.NoError(t, err)
	old.Status = models.SubscriptionStatusExpired

	current := newSub(user.ID, now, 90)
	require.NoError(t, repo.CreateWithMirror(ctx, current))

	cancelledAt := now
	require.NoError(t, repo.UpdateStatusWithMirror(ctx, old, models.SubscriptionStatusCancelled, &cancelledAt))
	require.NoError(t, repo.UpdateStatusWithMirror(ctx, old, models.SubscriptionStatusInactive, nil))

	got, err := repo.FindByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusInactive, got.Status)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", user.ID).Error)
	require.NotNil(t, u.SubscriptionID)
	assert.Equal(t, current.ID, *u.SubscriptionID)
	assert.Equal(t, models.SubscriptionStatusActive, u.SubscriptionStatus)
	require.NotNil(t, u.SubscriptionExpiry)
	assert.WithinDuration(t, current.EndDate, *u.SubscriptionExpiry, time.Second)
}

func TestSubscriptionRepository_ExpireLapsed(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	lapsedUser := testutil.CreateUser(t, db, &models.User{})
	lapsed := newSub(lapsedUser.ID, now.AddDate(0, 0, -31), 30)
	require.NoError(t, repo.CreateWithMirror(ctx, lapsed))

	currentUser := testutil.CreateUser(t, db, &models.User{})
	current := newSub(currentUser.ID, now, 30)
	require.NoError(t, repo.CreateWithMirror(ctx, current))

	n, err := repo.ExpireLapsed(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, lapsed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusExpired, got.Status)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", lapsedUser.ID).Error)
	assert.Equal(t, models.SubscriptionStatusExpired, u.SubscriptionStatus)
	assert.Nil(t, u.SubscriptionExpiry)

	got, err = repo.FindByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, got.Status)

	n, err = repo.ExpireLapsed(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
