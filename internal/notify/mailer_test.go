package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gopkg.in/gomail.v2"

	"github.com/shadowkingaftab/connect-hire/internal/ledger"
	"github.com/shadowkingaftab/connect-hire/internal/model"
)

// fakeSender records every message handed to it and can fail or stall on demand
type fakeSender struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestMailer(sender Sender) *Mailer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Mailer{
		From:    "noreply@connecthire.test",
		Sender:  sender,
		Timeout: DefaultSendTimeout,
		Log:     log,
	}
}

func sampleJob() model.Job {
	return model.Job{
		ID: 7,
		EditableJobInfo: model.EditableJobInfo{
			Title: "Backend Engineer",
		},
	}
}

func sampleCompany() model.Company {
	return model.Company{
		EditableCompanyInfo: model.EditableCompanyInfo{
			Name: "TechNova",
		},
	}
}

func TestStatusEmailGoesToApplicant(t *testing.T) {
	sender := &fakeSender{}
	m := newTestMailer(sender)

	app := model.Application{ID: 1, ApplicantName: "Alice", ApplicantEmail: "alice@example.com"}
	receipt, err := m.SendStatusEmail(context.Background(), app, sampleJob(), sampleCompany(),
		model.StatusShortlisted, "Great profile!")

	assert.NoError(t, err)
	assert.NotEmpty(t, receipt.MessageID)
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sender.sent[0].GetHeader("To"))
}

func TestStatusEmailMissingAddressFailsWithoutDialing(t *testing.T) {
	sender := &fakeSender{}
	m := newTestMailer(sender)

	app := model.Application{ID: 1, ApplicantName: "Alice"}
	_, err := m.SendStatusEmail(context.Background(), app, sampleJob(), sampleCompany(),
		model.StatusRejected, "")

	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.Empty(t, sender.sent)
}

func TestStatusEmailProviderFailureIsUpstream(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	m := newTestMailer(sender)

	app := model.Application{ID: 1, ApplicantEmail: "alice@example.com"}
	_, err := m.SendStatusEmail(context.Background(), app, sampleJob(), sampleCompany(),
		model.StatusSelected, "")

	assert.ErrorIs(t, err, ledger.ErrUpstream)
}

func TestSendTimesOutAsUpstreamFailure(t *testing.T) {
	sender := &fakeSender{delay: 200 * time.Millisecond}
	m := newTestMailer(sender)
	m.Timeout = 20 * time.Millisecond

	app := model.Application{ID: 1, ApplicantEmail: "alice@example.com"}
	_, err := m.SendStatusEmail(context.Background(), app, sampleJob(), sampleCompany(),
		model.StatusReviewed, "")

	assert.ErrorIs(t, err, ledger.ErrUpstream)
}

func TestShortlistEmailGoesToManager(t *testing.T) {
	sender := &fakeSender{}
	m := newTestMailer(sender)

	applicants := []ShortlistedApplicant{
		{Name: "Alice", Age: 23, Experience: 2, ResumeURL: "https://storage.example/resumes/1.pdf?sig=abc"},
		{Name: "Bob", Age: 25, Experience: 5},
	}
	receipt, err := m.SendShortlistEmail(context.Background(), "boss@technova.test",
		sampleJob(), sampleCompany(), "Please review before Friday", applicants)

	assert.NoError(t, err)
	assert.NotEmpty(t, receipt.MessageID)
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"boss@technova.test"}, sender.sent[0].GetHeader("To"))
}

func TestShortlistEmptyApplicantListFailsFast(t *testing.T) {
	sender := &fakeSender{}
	m := newTestMailer(sender)

	_, err := m.SendShortlistEmail(context.Background(), "boss@technova.test",
		sampleJob(), sampleCompany(), "", nil)

	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.Empty(t, sender.sent)
}

func TestShortlistMissingRecipientFailsFast(t *testing.T) {
	sender := &fakeSender{}
	m := newTestMailer(sender)

	applicants := []ShortlistedApplicant{{Name: "Alice"}}
	_, err := m.SendShortlistEmail(context.Background(), "  ",
		sampleJob(), sampleCompany(), "", applicants)

	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.Empty(t, sender.sent)
}
