package services

import (
	"context"
	"errors"

	"rentify_backend/internal/logger"
	"rentify_backend/internal/metrics"
	"rentify_backend/internal/models"
	"rentify_backend/internal/repositories"
)

// AccessReason explains a contact visibility decision.
type AccessReason string

const (
	AccessBySubscription  AccessReason = "subscription"
	AccessGrandfathered   AccessReason = "grandfathered"
	AccessByOwnerOverride AccessReason = "owner_override"
	AccessDenied          AccessReason = "denied"
)

// AccessDecision - результат проверки доступа к контактам.
type AccessDecision struct {
	HasAccess bool
	Reason    AccessReason
	// ObservedStatus is what was written to the view record: active or inactive.
	ObservedStatus models.SubscriptionStatus
}

// AccessPolicy decides contact visibility for one (viewer, property) pair and
// records the view. The view upsert and the counter increment are separate
// writes; neither is rolled back if the other fails.
type AccessPolicy struct {
	subs    repositories.SubscriptionRepository
	views   repositories.PropertyViewRepository
	props   repositories.PropertyRepository
	metrics *metrics.Metrics
	now     Clock
}

func NewAccessPolicy(
	subs repositories.SubscriptionRepository,
	views repositories.PropertyViewRepository,
	props repositories.PropertyRepository,
	m *metrics.Metrics,
	clock Clock,
) *AccessPolicy {
	return &AccessPolicy{
		subs:    subs,
		views:   views,
		props:   props,
		metrics: m,
		now:     clockOrDefault(clock),
	}
}

// Evaluate runs the policy for a property that is known to exist. viewerID is
// empty for anonymous requests.
func (a *AccessPolicy) Evaluate(ctx context.Context, viewerID string, property *models.Property) (AccessDecision, error) {
	now := a.now()
	decision := AccessDecision{Reason: AccessDenied}

	if viewerID != "" {
		// Активность считаем по подписке "здесь и сейчас", кэш в users не используем
		active, err := a.hasActiveSubscription(ctx, viewerID)
		if err != nil {
			return decision, err
		}

		decision.ObservedStatus = models.SubscriptionStatusInactive
		if active {
			decision.ObservedStatus = models.SubscriptionStatusActive
			decision.HasAccess = true
			decision.Reason = AccessBySubscription
		} else {
			grandfathered, err := a.viewedWhileSubscribed(ctx, viewerID, property.ID)
			if err != nil {
				return decision, err
			}
			if grandfathered {
				decision.HasAccess = true
				decision.Reason = AccessGrandfathered
			}
		}

		if err := a.views.Upsert(ctx, viewerID, property.ID, decision.ObservedStatus, now); err != nil {
			return decision, err
		}
	}

	if !decision.HasAccess && property.ContactInfo.ShowContact {
		decision.HasAccess = true
		decision.Reason = AccessByOwnerOverride
	}

	if err := a.props.IncrementViews(ctx, property.ID); err != nil {
		return decision, err
	}
	property.Views++

	a.metrics.RecordPropertyView(viewerID != "")
	a.metrics.RecordContactAccess(string(decision.Reason))
	if decision.Reason == AccessGrandfathered {
		logger.CtxInfo(ctx, "contact access granted from earlier subscribed view",
			"property_id", property.ID, "user_id", viewerID)
	}
	return decision, nil
}

func (a *AccessPolicy) hasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	_, err := a.subs.FindActiveByUser(ctx, userID, a.now())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return false, nil
	}
	return false, err
}

// viewedWhileSubscribed reports whether the stored view for the pair was
// recorded with an active subscription. The record is only refreshed on the
// next view, so this grant can outlive the subscription that earned it.
func (a *AccessPolicy) viewedWhileSubscribed(ctx context.Context, userID, propertyID string) (bool, error) {
	view, err := a.views.Find(ctx, userID, propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyViewNotFound) {
			return false, nil
		}
		return false, err
	}
	return view.SubscriptionStatus == models.SubscriptionStatusActive, nil
}
