package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"rentify_backend/internal/email"
	"rentify_backend/internal/logger"
	"rentify_backend/internal/metrics"
	"rentify_backend/internal/models"
	"rentify_backend/internal/payment"
	"rentify_backend/internal/plans"
	"rentify_backend/internal/repositories"
	"rentify_backend/internal/services/dto"
	"rentify_backend/internal/validator"
	"rentify_backend/pkg/apperrors"
)

type SubscriptionService interface {
	ListPlans() []plans.Plan
	CreateSubscription(ctx context.Context, userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, actor Actor, subscriptionID string) (*dto.SubscriptionResponse, error)
	GetMySubscription(ctx context.Context, userID string) (*dto.MySubscriptionResponse, error)

	// Admin
	UpdateSubscriptionStatus(ctx context.Context, actor Actor, subscriptionID string, req *dto.UpdateSubscriptionStatusRequest) (*dto.SubscriptionResponse, error)
	ExpireLapsed(ctx context.Context, actor Actor) (*dto.ExpireLapsedResponse, error)
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	catalog          *plans.Catalog
	gateway          payment.Gateway
	notifier         *email.Notifier
	validator        *validator.Validator
	metrics          *metrics.Metrics
	now              Clock
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	catalog *plans.Catalog,
	gateway payment.Gateway,
	notifier *email.Notifier,
	v *validator.Validator,
	m *metrics.Metrics,
	clock Clock,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		catalog:          catalog,
		gateway:          gateway,
		notifier:         notifier,
		validator:        v,
		metrics:          m,
		now:              clockOrDefault(clock),
	}
}

func (s *subscriptionService) ListPlans() []plans.Plan {
	return s.catalog.List()
}

// CreateSubscription charges the plan price and, only after a confirmed
// charge, stores an active subscription. The one-live-subscription index
// settles concurrent purchases: the losing insert becomes a Conflict.
func (s *subscriptionService) CreateSubscription(ctx context.Context, userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := s.validator.ValidateApp(req); err != nil {
		s.metrics.RecordSubscription("unknown", "invalid_plan")
		return nil, err
	}
	plan, ok := s.catalog.Get(models.PlanTier(req.Plan))
	if !ok {
		s.metrics.RecordSubscription("unknown", "invalid_plan")
		return nil, apperrors.FieldError("plan", "Unknown plan")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrUserNotFound)
	}

	if err := s.ensureNoLiveSubscription(ctx, userID); err != nil {
		if apperrors.Is(err, apperrors.ErrActiveSubscriptionExists) {
			s.metrics.RecordSubscription(req.Plan, "conflict")
		}
		return nil, err
	}

	charge, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		UserID:           userID,
		Amount:           plan.Price,
		Currency:         plan.Currency,
		PaymentMethodRef: req.PaymentMethod,
		Description:      fmt.Sprintf("Rentify %s plan", plan.Name),
	})
	if err != nil {
		s.metrics.RecordSubscription(req.Plan, "payment_failed")
		logger.CtxWithError(ctx, "subscription payment failed", err, "plan", plan.Tier)
		return nil, apperrors.ErrPaymentFailed.WithError(err)
	}

	now := s.now()
	sub := &models.Subscription{
		UserID:           userID,
		Plan:             plan.Tier,
		PlanSnapshot:     datatypes.NewJSONType(plan.Snapshot()),
		StartDate:        now,
		EndDate:          now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
		Status:           models.SubscriptionStatusActive,
		PaymentReference: charge.Reference,
	}

	if err := s.subscriptionRepo.CreateWithMirror(ctx, sub); err != nil {
		// Платеж уже проведен, возврата нет: оставляем ссылку для ручной сверки
		logger.CtxWithError(ctx, "payment captured but subscription not stored", err,
			"payment_reference", charge.Reference, "plan", plan.Tier, "amount", plan.Price)
		if errors.Is(err, repositories.ErrLiveSubscriptionExists) {
			s.metrics.RecordSubscription(req.Plan, "conflict")
			return nil, apperrors.ErrActiveSubscriptionExists.WithError(err)
		}
		s.metrics.RecordSubscription(req.Plan, "error")
		return nil, apperrors.InternalError(err)
	}

	s.metrics.RecordSubscription(req.Plan, "created")
	logger.CtxInfo(ctx, "subscription created",
		"subscription_id", sub.ID, "plan", sub.Plan, "payment_reference", sub.PaymentReference)

	if s.notifier != nil {
		if err := s.notifier.SendSubscriptionReceipt(ctx, email.SubscriptionReceipt{
			To:               user.Email,
			Name:             user.Name,
			Plan:             plan.Name,
			Price:            plan.Price,
			Currency:         plan.Currency,
			EndDate:          sub.EndDate,
			PaymentReference: sub.PaymentReference,
		}); err != nil {
			logger.CtxWithError(ctx, "failed to send subscription receipt", err, "subscription_id", sub.ID)
		}
	}

	resp := dto.NewSubscriptionResponse(sub, now)
	return &resp, nil
}

// ensureNoLiveSubscription rejects a purchase while an active or pending
// subscription exists. An active one that already ran past its end date is
// moved to expired first, so a lapsed plan never blocks a new purchase.
func (s *subscriptionService) ensureNoLiveSubscription(ctx context.Context, userID string) error {
	live, err := s.subscriptionRepo.FindLiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	now := s.now()
	if live.Status == models.SubscriptionStatusActive && live.EndDate.Before(now) {
		if err := s.subscriptionRepo.UpdateStatusWithMirror(ctx, live, models.SubscriptionStatusExpired, nil); err != nil {
			return apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "lapsed subscription expired on purchase", "subscription_id", live.ID)
		return nil
	}
	return apperrors.ErrActiveSubscriptionExists
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, actor Actor, subscriptionID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrSubscriptionNotFound)
	}
	if sub.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if sub.Status == models.SubscriptionStatusCancelled {
		return nil, apperrors.ErrSubscriptionCancelled
	}

	now := s.now()
	if err := s.subscriptionRepo.UpdateStatusWithMirror(ctx, sub, models.SubscriptionStatusCancelled, &now); err != nil {
		return nil, mapRepoError(err, apperrors.ErrSubscriptionNotFound)
	}
	logger.CtxInfo(ctx, "subscription cancelled", "subscription_id", sub.ID, "actor_id", actor.UserID)

	s.notifyCancelled(ctx, sub)

	resp := dto.NewSubscriptionResponse(sub, now)
	return &resp, nil
}

func (s *subscriptionService) notifyCancelled(ctx context.Context, sub *models.Subscription) {
	if s.notifier == nil {
		return
	}
	user, err := s.userRepo.FindByID(ctx, sub.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "cancellation notice skipped", err, "subscription_id", sub.ID)
		return
	}
	if err := s.notifier.SendSubscriptionCancelled(ctx, user.Email, user.Name, sub.PlanSnapshot.Data().Name); err != nil {
		logger.CtxWithError(ctx, "failed to send cancellation notice", err, "subscription_id", sub.ID)
	}
}

func (s *subscriptionService) UpdateSubscriptionStatus(ctx context.Context, actor Actor, subscriptionID string, req *dto.UpdateSubscriptionStatusRequest) (*dto.SubscriptionResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := s.validator.ValidateApp(req); err != nil {
		return nil, err
	}

	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrSubscriptionNotFound)
	}

	status := models.SubscriptionStatus(req.Status)
	var cancelledAt *time.Time
	if status == models.SubscriptionStatusCancelled && sub.CancelledAt == nil {
		now := s.now()
		cancelledAt = &now
	}

	if err := s.subscriptionRepo.UpdateStatusWithMirror(ctx, sub, status, cancelledAt); err != nil {
		return nil, mapRepoError(err, apperrors.ErrSubscriptionNotFound)
	}
	logger.CtxInfo(ctx, "subscription status changed by admin",
		"subscription_id", sub.ID, "status", status, "admin_id", actor.UserID)

	resp := dto.NewSubscriptionResponse(sub, s.now())
	return &resp, nil
}

func (s *subscriptionService) GetMySubscription(ctx context.Context, userID string) (*dto.MySubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return &dto.MySubscriptionResponse{Status: models.SubscriptionStatusInactive}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	resp := dto.NewSubscriptionResponse(sub, now)
	status := sub.Status
	// Статус в БД мог устареть: активная подписка с прошедшей датой уже истекла
	if status == models.SubscriptionStatusActive && !resp.IsActive {
		status = models.SubscriptionStatusExpired
	}
	return &dto.MySubscriptionResponse{Subscription: &resp, Status: status}, nil
}

func (s *subscriptionService) ExpireLapsed(ctx context.Context, actor Actor) (*dto.ExpireLapsedResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	n, err := s.subscriptionRepo.ExpireLapsed(ctx, s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "lapsed subscriptions expired", "count", n, "admin_id", actor.UserID)
	return &dto.ExpireLapsedResponse{Expired: n}, nil
}
