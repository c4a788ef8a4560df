package email

import (
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/Dan9191/fincalc/internal/config"
	"github.com/Dan9191/fincalc/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrDisabled is returned when SMTP is not configured
var ErrDisabled = errors.New("email delivery is not configured")

// ErrInvalidRecipient is returned for a malformed destination address
var ErrInvalidRecipient = errors.New("invalid recipient address")

const previewRows = 12

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Enabled reports whether the sender can deliver mail
func (s *Sender) Enabled() bool {
	return s.cfg.MailEnabled()
}

// SendPlanSummary mails a plain-text summary of a debt payoff plan
func (s *Sender) SendPlanSummary(to string, plan models.DebtPaymentPlan) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, to)
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{addr.Address}
	e.Subject = fmt.Sprintf("Your %s debt payoff plan", plan.Strategy)
	e.Text = []byte(planBody(plan))

	smtpAddr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, smtpAddr, auth); err != nil {
		s.logger.Errorf("Failed to send plan summary to %s: %v", addr.Address, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", addr.Address, e.Subject)
	return nil
}

func planBody(plan models.DebtPaymentPlan) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("Hello,\n\nHere is the summary of your debt payoff plan.\n\n")
	p.Fprintf(&b, "Strategy:           %s\n", plan.Strategy)
	p.Fprintf(&b, "Total debt:         %.2f\n", plan.TotalDebt)
	p.Fprintf(&b, "Monthly payment:    %.2f (extra %.2f)\n", plan.MonthlyPayment, plan.ExtraPayment)
	p.Fprintf(&b, "Total interest:     %.2f\n", plan.TotalInterest)
	p.Fprintf(&b, "Total payments:     %.2f\n", plan.TotalPayments)
	p.Fprintf(&b, "Months to freedom:  %d\n", plan.MonthsToFreedom)
	p.Fprintf(&b, "Estimated savings:  %.2f\n", plan.Savings)
	if !plan.Converged {
		b.WriteString("\nThe plan did not reach a zero balance within the simulation limit.\n")
	}

	b.WriteString("\n")
	b.WriteString(plan.Explanation)
	b.WriteString("\n\nFirst payments:\n")
	for i, pay := range plan.Payments {
		if i == previewRows {
			p.Fprintf(&b, "... and %d more\n", len(plan.Payments)-previewRows)
			break
		}
		p.Fprintf(&b, "  month %3d  %-20s  %10.2f  remaining %.2f\n", pay.Month, pay.DebtName, pay.Payment, pay.RemainingBalance)
	}

	b.WriteString("\nTips:\n")
	for _, tip := range plan.Tips {
		b.WriteString("  - " + tip + "\n")
	}
	b.WriteString("\nBest regards,\nFinCalc")
	return b.String()
}
