// Package mail sends transactional email. Services depend on the Mailer
// interface so tests can swap in a recorder.
package mail

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	Send(to, subject, html string) error
}

// SendGrid sends mail through the SendGrid API.
type SendGrid struct {
	apiKey string
	from   string
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{apiKey: apiKey, from: from}
}

func (s *SendGrid) Send(to, subject, html string) error {
	from := sgmail.NewEmail("Inklet", s.from)
	msg := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", to), "", html)
	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// ResetPasswordEmail renders the password-reset message. The plain token is
// embedded in the link; only its hash is stored server-side.
func ResetPasswordEmail(frontendURL, token string) (subject, body string) {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token)
	subject = "Reset your Inklet password"
	body = fmt.Sprintf(
		`<p>We received a request to reset your password.</p>
<p><a href="%s">Click here to choose a new one.</a></p>
<p>The link expires in 15 minutes. If you didn't ask for this, you can ignore this email.</p>`,
		resetURL)
	return subject, body
}
