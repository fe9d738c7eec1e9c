// Package email delivers transactional mail for the lead pipeline.
package email

import (
	"context"

	"salesdesk_backend/platform/config"
)

// Sender delivers the pipeline's notification emails.
type Sender interface {
	// SendLeadAssignedEmail notifies a rep that a lead landed on their desk.
	SendLeadAssignedEmail(ctx context.Context, toEmail, leadName, territory, reason string) error
	// SendStaleLeadEmail nudges a rep about a contacted lead that stopped moving.
	SendStaleLeadEmail(ctx context.Context, toEmail, leadName string, idleHours int) error
	// SendStageChangedEmail tells a rep that one of their leads moved stage.
	SendStageChangedEmail(ctx context.Context, toEmail, leadName, fromStage, toStage string) error
}

// NewSender returns the SMTP sender, or a no-op sender when email delivery
// is disabled in config.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}

// NoopSender drops all mail. Used in development and tests.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendStaleLeadEmail(context.Context, string, string, int) error {
	return nil
}

func (NoopSender) SendStageChangedEmail(context.Context, string, string, string, string) error {
	return nil
}
