package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeMailCredentials   JobType = "mail_credentials"
	JobTypeMailRefundNotice  JobType = "mail_refund_notice"
	JobTypeMailOperatorAlert JobType = "mail_operator_alert"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// CredentialsMailPayload carries the welcome mail with the one-time password.
// The password lives only in the queue payload and expires with the job TTL.
type CredentialsMailPayload struct {
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// ToMap converts the payload to a map for storage
func (p CredentialsMailPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"email":         p.Email,
		"temp_password": p.TempPassword,
	}
}

// CredentialsMailPayloadFromMap creates a payload from a map
func CredentialsMailPayloadFromMap(data map[string]interface{}) (*CredentialsMailPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload CredentialsMailPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// RefundNoticeMailPayload carries the customer notice for a refunded checkout.
type RefundNoticeMailPayload struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// ToMap converts the payload to a map for storage
func (p RefundNoticeMailPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"email":     p.Email,
		"amount":    p.Amount,
		"currency":  p.Currency,
		"reference": p.Reference,
	}
}

// RefundNoticeMailPayloadFromMap creates a payload from a map
func RefundNoticeMailPayloadFromMap(data map[string]interface{}) (*RefundNoticeMailPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload RefundNoticeMailPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// OperatorAlertMailPayload carries an alert to the operator inbox.
type OperatorAlertMailPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ToMap converts the payload to a map for storage
func (p OperatorAlertMailPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"subject": p.Subject,
		"body":    p.Body,
	}
}

// OperatorAlertMailPayloadFromMap creates a payload from a map
func OperatorAlertMailPayloadFromMap(data map[string]interface{}) (*OperatorAlertMailPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload OperatorAlertMailPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
