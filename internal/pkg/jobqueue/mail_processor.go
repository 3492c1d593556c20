package jobqueue

import (
	"fmt"
	"html"

	"github.com/castboard/castboard/internal/pkg/env"
)

// processMailJob renders and delivers one outbound mail job.
func (q *Queue) processMailJob(job *Job) error {
	if q.mailer == nil {
		return fmt.Errorf("no mailer configured")
	}

	switch job.Type {
	case JobTypeMailCredentials:
		payload, err := CredentialsMailPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid credentials payload: %w", err)
		}
		subject, body := RenderCredentialsMail(payload)
		return q.mailer.Send(payload.Email, subject, body)

	case JobTypeMailRefundNotice:
		payload, err := RefundNoticeMailPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid refund notice payload: %w", err)
		}
		subject, body := RenderRefundNoticeMail(payload)
		return q.mailer.Send(payload.Email, subject, body)

	case JobTypeMailOperatorAlert:
		payload, err := OperatorAlertMailPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid operator alert payload: %w", err)
		}
		to := env.GetEnv("OPERATOR_EMAIL", "")
		if to == "" {
			return fmt.Errorf("OPERATOR_EMAIL not configured")
		}
		return q.mailer.Send(to, payload.Subject, "<pre>"+html.EscapeString(payload.Body)+"</pre>")

	default:
		return fmt.Errorf("not a mail job: %s", job.Type)
	}
}

// RenderCredentialsMail builds the welcome mail carrying the one-time
// password.
func RenderCredentialsMail(p *CredentialsMailPayload) (subject, body string) {
	appURL := env.GetEnv("PUBLIC_DOMAIN", "https://app.castboard.io")
	subject = "Welcome to CastBoard - your account is ready"
	body = fmt.Sprintf(
		"<h2>Welcome to CastBoard!</h2>"+
			"<p>Your sedcard account has been created.</p>"+
			"<p>Login: <b>%s</b><br>Temporary password: <b>%s</b></p>"+
			"<p>Please sign in at <a href=\"%s\">%s</a> and change your password right away.</p>",
		html.EscapeString(p.Email), html.EscapeString(p.TempPassword), appURL, appURL,
	)
	return subject, body
}

// RenderRefundNoticeMail builds the customer notice for a refunded checkout.
func RenderRefundNoticeMail(p *RefundNoticeMailPayload) (subject, body string) {
	subject = "Your CastBoard payment has been refunded"
	body = fmt.Sprintf(
		"<p>We could not set up your CastBoard account, so your payment of "+
			"<b>%s %s</b> has been refunded in full.</p>"+
			"<p>No account was created and you will not be charged. "+
			"Reference: %s</p>"+
			"<p>You are welcome to try again at any time.</p>",
		formatAmount(p.Amount), html.EscapeString(p.Currency), html.EscapeString(p.Reference),
	)
	return subject, body
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
