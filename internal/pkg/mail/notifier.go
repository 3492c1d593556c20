package mail

import (
	"github.com/castboard/castboard/internal/pkg/jobqueue"
)

// enqueuer is the part of the job queue the notifier needs.
type enqueuer interface {
	EnqueueJob(jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error)
}

// QueueNotifier hands outbound billing mail to the job queue instead of
// sending inline, so a slow or down SMTP server cannot stall a webhook
// response. Delivery retries are the queue's problem.
type QueueNotifier struct {
	queue enqueuer
}

// NewQueueNotifier creates a notifier backed by the given queue.
func NewQueueNotifier(queue *jobqueue.Queue) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

func (n *QueueNotifier) SendCredentials(email, tempPassword string) error {
	payload := jobqueue.CredentialsMailPayload{Email: email, TempPassword: tempPassword}
	_, err := n.queue.EnqueueJob(jobqueue.JobTypeMailCredentials, payload.ToMap())
	return err
}

func (n *QueueNotifier) SendRefundNotice(email string, amount int64, currency, reference string) error {
	payload := jobqueue.RefundNoticeMailPayload{
		Email:     email,
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
	}
	_, err := n.queue.EnqueueJob(jobqueue.JobTypeMailRefundNotice, payload.ToMap())
	return err
}

func (n *QueueNotifier) SendOperatorAlert(subject, body string) error {
	payload := jobqueue.OperatorAlertMailPayload{Subject: subject, Body: body}
	_, err := n.queue.EnqueueJob(jobqueue.JobTypeMailOperatorAlert, payload.ToMap())
	return err
}
