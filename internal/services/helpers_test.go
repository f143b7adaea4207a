package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rentify_backend/internal/auth"
	"rentify_backend/internal/email"
	"rentify_backend/internal/metrics"
	"rentify_backend/internal/models"
	"rentify_backend/internal/payment"
	"rentify_backend/internal/plans"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/storage"
	"rentify_backend/internal/testutil"
	"rentify_backend/pkg/apperrors"
)

var errStoreDown = errors.New("image host unavailable")

// fakeImageStore records uploads and deletes; failAt makes the n-th upload (1-based) fail.
type fakeImageStore struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failAt   int
	calls    int
}

func (f *fakeImageStore) Upload(ctx context.Context, img storage.ImageUpload) (*storage.StoredImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return nil, errStoreDown
	}
	id := fmt.Sprintf("rentify/properties/%d-%s", f.calls, img.Filename)
	f.uploaded = append(f.uploaded, id)
	return &storage.StoredImage{URL: "https://img.test/" + id, ProviderID: id}, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, providerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, providerID)
	return nil
}

func (f *fakeImageStore) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// countingGateway wraps the sandbox gateway and counts charges.
type countingGateway struct {
	inner payment.Gateway
	calls atomic.Int32
	// barrier, when set, holds every charge until it has been reached by all parties.
	barrier *sync.WaitGroup
}

func (g *countingGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	g.calls.Add(1)
	if g.barrier != nil {
		g.barrier.Done()
		done := make(chan struct{})
		go func() {
			g.barrier.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}
	return g.inner.Charge(ctx, req)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db      *gorm.DB
	repos   Repositories
	clock   *fakeClock
	images  *fakeImageStore
	gateway *countingGateway
	mail    *email.MockProvider
	metrics *metrics.Metrics
	svc     *ServiceContainer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		db: db,
		repos: Repositories{
			Users:         repositories.NewUserRepository(db),
			Properties:    repositories.NewPropertyRepository(db),
			Views:         repositories.NewPropertyViewRepository(db),
			Subscriptions: repositories.NewSubscriptionRepository(db),
			Reports:       repositories.NewReportRepository(db),
		},
		clock:   &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		images:  &fakeImageStore{},
		gateway: &countingGateway{inner: payment.NewSandboxGateway("fail")},
		mail:    &email.MockProvider{},
		metrics: metrics.New("rentify_test"),
	}
	f.svc = NewServiceContainer(f.repos, Dependencies{
		Tokens:    tokens,
		Images:    f.images,
		Payments:  f.gateway,
		Plans:     plans.Default(),
		Notifier:  email.NewNotifier(f.mail, nil),
		Metrics:   f.metrics,
		Clock:     f.clock.Now,
		MaxImages: 5,
	})
	return f
}

func (f *fixture) user(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	return testutil.CreateUser(t, f.db, &models.User{Role: role})
}

func (f *fixture) property(t *testing.T, ownerID string, mutate ...func(p *models.Property)) *models.Property {
	t.Helper()
	p := testutil.NewProperty(ownerID)
	for _, m := range mutate {
		m(p)
	}
	return testutil.CreateProperty(t, f.db, p)
}

// activeSubscription stores an active subscription for userID through the repository.
func (f *fixture) activeSubscription(t *testing.T, userID string, start time.Time, days int) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		UserID:    userID,
		Plan:      models.PlanBasic,
		StartDate: start,
		EndDate:   start.Add(time.Duration(days) * 24 * time.Hour),
		Status:    models.SubscriptionStatusActive,
	}
	require.NoError(t, f.repos.Subscriptions.CreateWithMirror(context.Background(), sub))
	return sub
}

func (f *fixture) reloadProperty(t *testing.T, id string) *models.Property {
	t.Helper()
	var p models.Property
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return &p
}

func actorOf(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Error())
	return appErr
}
