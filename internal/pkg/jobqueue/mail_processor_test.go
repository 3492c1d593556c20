package jobqueue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingMailer struct {
	to       []string
	subjects []string
	bodies   []string
	fail     error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

func TestProcessMailJobCredentials(t *testing.T) {
	mailer := &recordingMailer{}
	q := &Queue{mailer: mailer}

	payload := CredentialsMailPayload{Email: "jane@example.com", TempPassword: "s3cret-pass"}
	job := &Job{ID: "1", Type: JobTypeMailCredentials, Payload: payload.ToMap()}

	assert.NoError(t, q.processMailJob(job))
	assert.Equal(t, []string{"jane@example.com"}, mailer.to)
	assert.Contains(t, mailer.subjects[0], "Welcome")
	assert.Contains(t, mailer.bodies[0], "s3cret-pass")
}

func TestProcessMailJobRefundNotice(t *testing.T) {
	mailer := &recordingMailer{}
	q := &Queue{mailer: mailer}

	payload := RefundNoticeMailPayload{
		Email: "jane@example.com", Amount: 8700, Currency: "EUR", Reference: "cs_1",
	}
	job := &Job{ID: "1", Type: JobTypeMailRefundNotice, Payload: payload.ToMap()}

	assert.NoError(t, q.processMailJob(job))
	assert.Contains(t, mailer.bodies[0], "87.00")
	assert.Contains(t, mailer.bodies[0], "cs_1")
	assert.Contains(t, mailer.bodies[0], "refunded in full")
}

func TestProcessMailJobOperatorAlert(t *testing.T) {
	t.Setenv("OPERATOR_EMAIL", "ops@castboard.io")

	mailer := &recordingMailer{}
	q := &Queue{mailer: mailer}

	payload := OperatorAlertMailPayload{Subject: "MANUAL REVIEW REQUIRED: refund failed", Body: "session=cs_1"}
	job := &Job{ID: "1", Type: JobTypeMailOperatorAlert, Payload: payload.ToMap()}

	assert.NoError(t, q.processMailJob(job))
	assert.Equal(t, []string{"ops@castboard.io"}, mailer.to)
	assert.Equal(t, "MANUAL REVIEW REQUIRED: refund failed", mailer.subjects[0])
}

func TestProcessMailJobOperatorAlertWithoutRecipient(t *testing.T) {
	t.Setenv("OPERATOR_EMAIL", "")

	q := &Queue{mailer: &recordingMailer{}}
	payload := OperatorAlertMailPayload{Subject: "x", Body: "y"}
	job := &Job{ID: "1", Type: JobTypeMailOperatorAlert, Payload: payload.ToMap()}

	assert.Error(t, q.processMailJob(job))
}

func TestProcessMailJobDeliveryFailure(t *testing.T) {
	sendErr := errors.New("smtp down")
	q := &Queue{mailer: &recordingMailer{fail: sendErr}}

	payload := CredentialsMailPayload{Email: "jane@example.com", TempPassword: "pw"}
	job := &Job{ID: "1", Type: JobTypeMailCredentials, Payload: payload.ToMap()}

	assert.ErrorIs(t, q.processMailJob(job), sendErr)
}

func TestJobRetryTransitions(t *testing.T) {
	job := &Job{ID: "1", Type: JobTypeMailCredentials, Status: JobStatusPending, MaxRetries: 2}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("smtp down")
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsFailed("smtp down")
	assert.Equal(t, 2, job.RetryCount)
	assert.False(t, job.IsRetryable(), "retry budget exhausted")

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
}

func TestCredentialsPayloadRoundTrip(t *testing.T) {
	payload := CredentialsMailPayload{Email: "jane@example.com", TempPassword: "pw"}
	got, err := CredentialsMailPayloadFromMap(payload.ToMap())
	assert.NoError(t, err)
	assert.Equal(t, payload, *got)
}
