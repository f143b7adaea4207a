// Package payment talks to the payment processor. The processor itself is a
// black box: a charge either succeeds with a reference or fails.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentify_backend/internal/logger"
)

var ErrDeclined = errors.New("payment declined")

type ChargeRequest struct {
	UserID           string
	Amount           float64
	Currency         string
	PaymentMethodRef string
	Description      string
}

type ChargeResult struct {
	Reference string
	ChargedAt time.Time
}

// Gateway charges a payment method. Implementations must not retry.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// SandboxGateway approves every charge except payment methods carrying the
// decline prefix. It is the only provider shipped.
type SandboxGateway struct {
	declinePrefix string
	now           func() time.Time
}

func NewSandboxGateway(declinePrefix string) *SandboxGateway {
	return &SandboxGateway{declinePrefix: declinePrefix, now: time.Now}
}

func (g *SandboxGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	start := time.Now()
	result, err := g.charge(ctx, req)
	logger.ExternalLog("payment", "charge", time.Since(start), err)
	return result, err
}

func (g *SandboxGateway) charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %.2f", req.Amount)
	}
	if strings.TrimSpace(req.PaymentMethodRef) == "" {
		return nil, fmt.Errorf("%w: missing payment method", ErrDeclined)
	}
	if g.declinePrefix != "" && strings.HasPrefix(req.PaymentMethodRef, g.declinePrefix) {
		return nil, fmt.Errorf("%w: %s", ErrDeclined, req.PaymentMethodRef)
	}
	return &ChargeResult{
		Reference: "pay_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		ChargedAt: g.now().UTC(),
	}, nil
}

// New returns the gateway for a configured provider name.
func New(provider, declinePrefix string) (Gateway, error) {
	switch provider {
	case "", "sandbox":
		return NewSandboxGateway(declinePrefix), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider: %s", provider)
	}
}
