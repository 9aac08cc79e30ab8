package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"eventhub/pkg/logger"

	"github.com/resendlabs/resend-go"
)

var resetTemplate = template.Must(template.New("reset-password").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif">
	<p>Hi {{.Username}},</p>
	<p>We received a request to reset your EventHub password. The link below is valid for {{.ValidFor}}.</p>
	<p><a href="{{.ResetLink}}">Reset password</a></p>
	<p>If you did not ask for this, you can ignore this e-mail.</p>
	<p style="color: #888">&copy; {{.Year}} EventHub</p>
</body>
</html>`))

type resetData struct {
	Username  string
	ResetLink string
	ValidFor  string
	Year      int
}

// ResendMailer отправляет письма через Resend API
type ResendMailer struct {
	client   *resend.Client
	from     string
	validFor time.Duration
}

func NewResendMailer(apiKey, fromAddress, fromName string, validFor time.Duration) *ResendMailer {
	return &ResendMailer{
		client:   resend.NewClient(apiKey),
		from:     fmt.Sprintf("%s <%s>", fromName, fromAddress),
		validFor: validFor,
	}
}

func (m *ResendMailer) SendPasswordReset(ctx context.Context, to, username, resetLink string) error {
	html, err := renderReset(resetData{
		Username:  username,
		ResetLink: resetLink,
		ValidFor:  m.validFor.String(),
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}

	resp, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Reset your EventHub password",
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	logger.Ctx(ctx).Info().Str("email_id", resp.Id).Msg("Password reset email sent")
	return nil
}

func renderReset(data resetData) (string, error) {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return body.String(), nil
}

// LogMailer используется, когда RESEND_API_KEY не задан: письмо не уходит, факт фиксируется в логе
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, to, _ string, _ string) error {
	logger.Ctx(ctx).Warn().Str("to", to).Msg("Email delivery disabled, password reset email dropped")
	return nil
}
