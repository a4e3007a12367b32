package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/meridianpsych/clinic-api/internal/config"
	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

// Sender delivers operational email through SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewSender(cfg config.SMTPConfig, l *logger.Logger) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: l,
	}
}

// SendEngagementAlert notifies the ops list that a patient left the
// active roster.
func (s *Sender) SendEngagementAlert(to []string, event *model.EngagementChangedEvent) error {
	if len(to) == 0 {
		return nil
	}
	subject := fmt.Sprintf("Patient engagement change: %s -> %s", event.FromStatus, event.ToStatus)
	body := fmt.Sprintf(
		"Patient %s moved from %s to %s by %s.\n\nReason: %s\nChanged at: %s\n",
		event.PatientID,
		event.FromStatus,
		event.ToStatus,
		event.ChangedByEmail,
		event.ChangeReason,
		event.ChangedAt.Format("2006-01-02 15:04"),
	)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send engagement alert: %w", err)
	}
	return nil
}

// SendDiagnosticsReport mails a rendered payer diagnostics summary.
func (s *Sender) SendDiagnosticsReport(to []string, payerName, rendered string) error {
	if len(to) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", fmt.Sprintf("Payer diagnostics: %s", payerName))
	m.SetBody("text/plain", rendered)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send diagnostics report: %w", err)
	}
	return nil
}
