// Package notify implements the outbound-email dispatcher consumed by the
// application ledger: a single-applicant status email and a bulk shortlist
// email to a manager. Every invocation makes at most one send attempt; retry
// is left to the acting employer.
package notify

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/shadowkingaftab/connect-hire/internal/ledger"
	"github.com/shadowkingaftab/connect-hire/internal/model"
)

// DefaultSendTimeout bounds a single SMTP send attempt
const DefaultSendTimeout = 10 * time.Second

// ResumeLinkValidity is how long a signed resume link in a shortlist email stays usable
const ResumeLinkValidity = 7 * 24 * time.Hour

// SendReceipt is the opaque proof of a successful send
type SendReceipt struct {
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// Sender abstracts the SMTP dialer so tests can swap in a fake
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends status-update and shortlist emails over SMTP
type Mailer struct {
	From    string
	Sender  Sender
	Timeout time.Duration
	Log     *logrus.Logger
}

// NewMailer builds a Mailer from SMTP_* environment variables
func NewMailer(log *logrus.Logger) (*Mailer, error) {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USERNAME")
	pass := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	if host == "" || from == "" {
		return nil, fmt.Errorf("SMTP_HOST and SMTP_FROM must be set")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 587
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Mailer{
		From:    from,
		Sender:  gomail.NewDialer(host, port, user, pass),
		Timeout: DefaultSendTimeout,
		Log:     log,
	}, nil
}

// send performs the single bounded attempt. A timeout counts as an
// upstream failure; the message may or may not have left, and the caller
// must not apply any paired ledger mutation.
func (m *Mailer) send(ctx context.Context, msg *gomail.Message) (SendReceipt, error) {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.Sender.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return SendReceipt{}, fmt.Errorf("smtp send: %v: %w", err, ledger.ErrUpstream)
		}
	case <-ctx.Done():
		return SendReceipt{}, fmt.Errorf("smtp send timed out: %w", ledger.ErrUpstream)
	}

	receipt := SendReceipt{
		MessageID: fmt.Sprintf("%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}
	return receipt, nil
}

// SendStatusEmail emails the applicant about the target status of their
// application. The applicant email must be present; the ledger write paired
// with this send is the caller's responsibility and only happens after
// success.
func (m *Mailer) SendStatusEmail(
	ctx context.Context,
	app model.Application,
	job model.Job,
	company model.Company,
	status model.ApplicationStatus,
	message string,
) (SendReceipt, error) {
	if strings.TrimSpace(app.ApplicantEmail) == "" {
		return SendReceipt{}, fmt.Errorf("applicant email missing: %w", ledger.ErrValidation)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", app.ApplicantEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Update on your application for %s at %s", job.Title, company.Name))
	msg.SetBody("text/html", statusEmailBody(app, job, company, status, message))

	receipt, err := m.send(ctx, msg)
	if err != nil {
		m.Log.WithFields(logrus.Fields{
			"application": app.ID,
			"status":      status,
		}).WithError(err).Warn("status email failed")
		return SendReceipt{}, err
	}

	m.Log.WithFields(logrus.Fields{
		"application": app.ID,
		"to":          app.ApplicantEmail,
		"status":      status,
	}).Info("status email sent")

	return receipt, nil
}

// ShortlistedApplicant is one row of a shortlist email, carrying a
// time-limited signed resume link.
type ShortlistedApplicant struct {
	Name       string `json:"name"`
	Age        uint   `json:"age"`
	Experience uint   `json:"experience_years"`
	ResumeURL  string `json:"resume_url"`
}

// SendShortlistEmail forwards a job's shortlist to a single manager address.
// It fails fast, before any SMTP dial, when the recipient is empty or the
// applicant list is empty; there is no partial send.
func (m *Mailer) SendShortlistEmail(
	ctx context.Context,
	bossEmail string,
	job model.Job,
	company model.Company,
	message string,
	applicants []ShortlistedApplicant,
) (SendReceipt, error) {
	if strings.TrimSpace(bossEmail) == "" {
		return SendReceipt{}, fmt.Errorf("recipient email missing: %w", ledger.ErrValidation)
	}
	if len(applicants) == 0 {
		return SendReceipt{}, fmt.Errorf("empty applicant list: %w", ledger.ErrValidation)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", bossEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Shortlisted candidates for %s at %s", job.Title, company.Name))
	msg.SetBody("text/html", shortlistEmailBody(job, company, message, applicants))

	receipt, err := m.send(ctx, msg)
	if err != nil {
		m.Log.WithFields(logrus.Fields{
			"job":        job.ID,
			"applicants": len(applicants),
		}).WithError(err).Warn("shortlist email failed")
		return SendReceipt{}, err
	}

	m.Log.WithFields(logrus.Fields{
		"job":        job.ID,
		"to":         bossEmail,
		"applicants": len(applicants),
	}).Info("shortlist email sent")

	return receipt, nil
}

func statusEmailBody(app model.Application, job model.Job, company model.Company, status model.ApplicationStatus, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Dear %s,</p>", app.ApplicantName)
	fmt.Fprintf(&b, "<p>Your application for <b>%s</b> at <b>%s</b> has been marked <b>%s</b>.</p>", job.Title, company.Name, status)
	if message != "" {
		fmt.Fprintf(&b, "<p>%s</p>", message)
	}
	fmt.Fprintf(&b, "<p>Regards,<br>%s Recruitment</p>", company.Name)
	return b.String()
}

func shortlistEmailBody(job model.Job, company model.Company, message string, applicants []ShortlistedApplicant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Shortlist for <b>%s</b> at <b>%s</b>.</p>", job.Title, company.Name)
	if message != "" {
		fmt.Fprintf(&b, "<p>%s</p>", message)
	}
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Name</th><th>Age</th><th>Experience</th><th>Resume</th></tr>")
	for _, a := range applicants {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d years</td><td><a href=\"%s\">resume</a></td></tr>",
			a.Name, a.Age, a.Experience, a.ResumeURL)
	}
	b.WriteString("</table>")
	b.WriteString("<p>Resume links expire in 7 days.</p>")
	return b.String()
}
