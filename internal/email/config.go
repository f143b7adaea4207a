package email

import "time"

const (
	defaultSMTPPort    = 587
	defaultFromName    = "Rentify"
	defaultSendTimeout = 15 * time.Second
)

// SMTPConfig - параметры SMTP для квитанций и уведомлений о модерации.
type SMTPConfig struct {
	Host      string
	Port      int // 465 - неявный TLS, остальное - STARTTLS
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	// SendTimeout caps one DialAndSend; 0 leaves only the caller's ctx.
	SendTimeout time.Duration
}

func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Port:        defaultSMTPPort,
		FromName:    defaultFromName,
		UseTLS:      true,
		SendTimeout: defaultSendTimeout,
	}
}
