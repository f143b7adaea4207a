package email

import (
	"context"
	"fmt"
	"time"

	"rentify_backend/internal/logger"
)

// Notifier sends the transactional mails of the marketplace.
type Notifier struct {
	provider Provider
	renderer TemplateRenderer
}

func NewNotifier(provider Provider, renderer TemplateRenderer) *Notifier {
	if renderer == nil {
		renderer = NewTemplateManager()
	}
	return &Notifier{provider: provider, renderer: renderer}
}

type SubscriptionReceipt struct {
	To               string
	Name             string
	Plan             string
	Price            float64
	Currency         string
	EndDate          time.Time
	PaymentReference string
}

func (n *Notifier) SendSubscriptionReceipt(ctx context.Context, r SubscriptionReceipt) error {
	return n.send(ctx, r.To, "Your Rentify subscription is active", TemplateSubscriptionReceipt, TemplateData{
		"Name":             r.Name,
		"Plan":             r.Plan,
		"Price":            fmt.Sprintf("%.2f", r.Price),
		"Currency":         r.Currency,
		"EndDate":          r.EndDate.Format("02 Jan 2006"),
		"PaymentReference": r.PaymentReference,
	})
}

func (n *Notifier) SendSubscriptionCancelled(ctx context.Context, to, name, plan string) error {
	return n.send(ctx, to, "Your Rentify subscription was cancelled", TemplateSubscriptionCancelled, TemplateData{
		"Name": name,
		"Plan": plan,
	})
}

func (n *Notifier) SendPropertyApproved(ctx context.Context, to, name, title string) error {
	return n.send(ctx, to, "Your listing is live", TemplatePropertyApproved, TemplateData{
		"Name":  name,
		"Title": title,
	})
}

func (n *Notifier) send(ctx context.Context, to, subject, templateName string, data TemplateData) error {
	html, err := n.renderer.Render(templateName, data)
	if err != nil {
		return err
	}

	start := time.Now()
	err = n.provider.Send(ctx, &Email{To: []string{to}, Subject: subject, HTMLBody: html})
	logger.ExternalLog("smtp", templateName, time.Since(start), err)
	return err
}
