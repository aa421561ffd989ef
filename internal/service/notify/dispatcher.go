// Package notify implements the change-notification side effect: a
// best-effort queue enqueue plus a direct transactional email send. It
// always runs after the primary data mutation has committed, so nothing
// in here may fail the calling operation.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

// SESAPI is the subset of the SES client used by the dispatcher.
type SESAPI interface {
	ListIdentities(ctx context.Context, params *ses.ListIdentitiesInput, optFns ...func(*ses.Options)) (*ses.ListIdentitiesOutput, error)
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SQSAPI is the subset of the SQS client used by the dispatcher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// queueMessage is the JSON shape of queued notifications.
type queueMessage struct {
	ToEmail     string `json:"toEmail"`
	Subject     string `json:"subject"`
	MessageBody string `json:"messageBody"`
}

// Dispatcher sends change notifications. The queue enqueue is advisory
// (fire-and-forget); only the direct email send decides the result.
type Dispatcher struct {
	ses             SESAPI
	sqs             SQSAPI
	queueURL        string
	sender          string
	strictRecipient bool
	logger          *slog.Logger
}

// NewDispatcher creates a Dispatcher from the notification configuration.
// If logger is nil, a default logger will be used.
func NewDispatcher(sesClient SESAPI, sqsClient SQSAPI, cfg config.NotificationsConfig, logger *slog.Logger) *Dispatcher {
	if sesClient == nil {
		panic("ses client cannot be nil")
	}
	if sqsClient == nil {
		panic("sqs client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		ses:             sesClient,
		sqs:             sqsClient,
		queueURL:        cfg.QueueURL,
		sender:          cfg.SenderEmail,
		strictRecipient: cfg.StrictRecipientCheck,
		logger:          logger.With(slog.String("component", "notify_dispatcher")),
	}
}

// Notify enqueues and emails a notification to the recipient. It returns
// true only when the direct email send succeeds; the queue outcome never
// affects the result. Every failure is logged and converted to false;
// this method never propagates an error to its caller.
func (d *Dispatcher) Notify(ctx context.Context, recipient, subject, body string) bool {
	log := logger.FromContextOrDefault(ctx, d.logger)

	verified, err := d.verifiedIdentities(ctx)
	if err != nil {
		log.Error("failed to list verified identities",
			slog.String("error", err.Error()))
		return false
	}

	if !verified[d.sender] {
		log.Error("sender email is not a verified identity",
			slog.String("sender", d.sender))
		return false
	}

	if !verified[recipient] {
		if d.strictRecipient {
			log.Error("recipient email is not a verified identity",
				slog.String("recipient", recipient))
			return false
		}
		// In sandbox mode delivery to unverified recipients fails at
		// the provider; surfacing that here is a policy choice left to
		// configuration.
		log.Warn("recipient email is not verified; delivery may fail in sandbox mode",
			slog.String("recipient", recipient))
	}

	d.enqueue(ctx, log, recipient, subject, body)

	return d.sendEmail(ctx, log, recipient, subject, body)
}

// verifiedIdentities fetches the set of verified email identities.
func (d *Dispatcher) verifiedIdentities(ctx context.Context) (map[string]bool, error) {
	out, err := d.ses.ListIdentities(ctx, &ses.ListIdentitiesInput{
		IdentityType: sestypes.IdentityTypeEmailAddress,
	})
	if err != nil {
		return nil, err
	}

	verified := make(map[string]bool, len(out.Identities))
	for _, identity := range out.Identities {
		verified[identity] = true
	}
	return verified, nil
}

// enqueue pushes the notification onto the work queue. Queueing is
// advisory: failures are logged, never propagated.
func (d *Dispatcher) enqueue(ctx context.Context, log *slog.Logger, recipient, subject, body string) {
	msg, err := json.Marshal(queueMessage{
		ToEmail:     recipient,
		Subject:     subject,
		MessageBody: body,
	})
	if err != nil {
		log.Error("failed to marshal queue message",
			slog.String("error", err.Error()))
		return
	}

	out, err := d.sqs.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.queueURL),
		MessageBody: aws.String(string(msg)),
	})
	if err != nil {
		log.Error("failed to enqueue notification",
			slog.String("error", err.Error()),
			slog.String("recipient", recipient))
		return
	}

	log.Debug("notification queued",
		slog.String("recipient", recipient),
		slog.String("message_id", aws.ToString(out.MessageId)))
}

// sendEmail performs the direct transactional send with both plain-text
// and HTML bodies.
func (d *Dispatcher) sendEmail(ctx context.Context, log *slog.Logger, recipient, subject, body string) bool {
	htmlBody := fmt.Sprintf(`<html>
<body>
	<h2>Task Notification</h2>
	<p>%s</p>
	<p>Thank you for using Task Manager!</p>
</body>
</html>`, strings.ReplaceAll(body, "\n", "<br>"))

	out, err := d.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(d.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
				Html: &sestypes.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	if err != nil {
		log.Error("failed to send notification email",
			slog.String("error", err.Error()),
			slog.String("recipient", recipient))
		return false
	}

	log.Info("notification email sent",
		slog.String("recipient", recipient),
		slog.String("message_id", aws.ToString(out.MessageId)))
	return true
}
