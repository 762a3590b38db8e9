package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/card-entry-service/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendVerificationOutageAlert notifies operators that BIN verification
// has failed repeatedly and the widget keeps falling back to retry.
func (s *Sender) SendVerificationOutageAlert(failures int, lastErr error) error {
	if s.cfg.OpsAlertEmail == "" {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.OpsAlertEmail}
	e.Subject = "BIN Verification Failure Alert"

	body := fmt.Sprintf(
		"BIN verification has failed %d times in a row.\n"+
			"Last failure: %v\n"+
			"Time: %s\n"+
			"Directory URL: %s\n\n"+
			"Sessions remain retry-eligible; no end-user impact beyond a locked keypad.\n",
		failures, lastErr, time.Now().Format("2006-01-02 15:04:05"), s.cfg.BINLookupURL,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send alert to %s: %v", s.cfg.OpsAlertEmail, err)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	s.logger.Infof("Alert sent to %s: %s", s.cfg.OpsAlertEmail, e.Subject)
	return nil
}
