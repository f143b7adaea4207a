package app

import (
	"rentify_backend/internal/config"
	"rentify_backend/internal/email"
	"rentify_backend/internal/logger"
)

// newEmailProvider returns the SMTP provider, or a recording mock when email is
// disabled (local development, tests).
func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	if !cfg.Email.Enabled {
		logger.Warn("Email is disabled, using the mock provider")
		return &email.MockProvider{}, nil
	}

	smtpCfg := email.DefaultConfig()
	smtpCfg.Host = cfg.Email.SMTPHost
	smtpCfg.Port = cfg.Email.SMTPPort
	smtpCfg.Username = cfg.Email.SMTPUsername
	smtpCfg.Password = cfg.Email.SMTPPassword
	smtpCfg.FromEmail = cfg.Email.FromEmail
	smtpCfg.FromName = cfg.Email.FromName
	smtpCfg.UseTLS = cfg.Email.UseTLS

	provider := email.NewSMTPProvider(smtpCfg)
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	return provider, nil
}
