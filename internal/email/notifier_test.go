package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscriptionReceipt(t *testing.T) {
	provider := &MockProvider{}
	n := NewNotifier(provider, nil)

	err := n.SendSubscriptionReceipt(context.Background(), SubscriptionReceipt{
		To:               "asha@test.com",
		Name:             "Asha",
		Plan:             "Basic",
		Price:            299,
		Currency:         "INR",
		EndDate:          time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		PaymentReference: "pay_123",
	})
	require.NoError(t, err)

	sent := provider.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"asha@test.com"}, sent[0].To)
	assert.Contains(t, sent[0].HTMLBody, "Basic")
	assert.Contains(t, sent[0].HTMLBody, "299.00 INR")
	assert.Contains(t, sent[0].HTMLBody, "01 Feb 2025")
	assert.Contains(t, sent[0].HTMLBody, "pay_123")
}

func TestNotifier_EscapesUserInput(t *testing.T) {
	provider := &MockProvider{}
	n := NewNotifier(provider, nil)

	require.NoError(t, n.SendPropertyApproved(context.Background(), "o@test.com", "Ravi", "<script>x</script>"))
	assert.NotContains(t, provider.Messages()[0].HTMLBody, "<script>")
}

func TestNotifier_ProviderErrorIsReturned(t *testing.T) {
	n := NewNotifier(&MockProvider{Err: errors.New("smtp down")}, nil)
	err := n.SendSubscriptionCancelled(context.Background(), "a@test.com", "A", "Premium")
	assert.EqualError(t, err, "smtp down")
}

func TestTemplateManager_UnknownTemplate(t *testing.T) {
	_, err := NewTemplateManager().Render("nope", nil)
	assert.Error(t, err)
}

func TestSMTPProvider_Validate(t *testing.T) {
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Port: 587, FromEmail: "a@b.c"}).Validate())
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 0, FromEmail: "a@b.c"}).Validate())
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 587}).Validate())
	assert.NoError(t, NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 587, FromEmail: "a@b.c"}).Validate())

	err := NewSMTPProvider(&SMTPConfig{Host: "smtp", Port: 587, FromEmail: "a@b.c"}).Send(context.Background(), &Email{})
	assert.Error(t, err)
}
