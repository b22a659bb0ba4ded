package utils

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"sync"

	"skilloria/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "Skilloria"

// Mailer delivers one HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mail is the process-wide mailer, replaced at startup.
var Mail Mailer = &LogMailer{}

// NewMailer picks the delivery backend from EMAIL_PROVIDER.
func NewMailer(cfg *config.Config) Mailer {
	switch cfg.EmailProvider {
	case "sendgrid":
		return NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	case "smtp":
		return &SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, From: cfg.EmailSender, Password: cfg.Password}
	default:
		return &LogMailer{}
	}
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s <%s>\r\n", senderName, m.From)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// SendgridMailer sends through the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(senderName, from),
	}
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), stripTags(htmlBody), htmlBody)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", to, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", to, resp.StatusCode, resp.Body)
	}
	return nil
}

// SentEmail is a message captured by LogMailer.
type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

// LogMailer logs messages instead of delivering them. Used in development and
// tests; Fail makes every send return an error.
type LogMailer struct {
	mu   sync.Mutex
	Sent []SentEmail
	Fail error
}

func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, HTML: htmlBody})
	Log.Infow("email logged", "to", to, "subject", subject)
	return nil
}

// Messages returns a copy of the captured messages.
func (m *LogMailer) Messages() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail(nil), m.Sent...)
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F2A44; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2A44; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3B82F6; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>SKILLORIA</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">If you did not sign up for Skilloria you can ignore this email.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// VerificationEmail builds the subject and body of the signup verification
// email.
func VerificationEmail(username, link string) (string, string) {
	subject := "Verify your email for Skilloria"
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for signing up. Please confirm your email address to activate your account.</p>
		<a href="%s" class="btn">Verify email</a>
		<p>Or paste this link into your browser:<br>%s</p>
	`, html.EscapeString(username), html.EscapeString(link), html.EscapeString(link))
	return subject, getEmailTemplate("Confirm your email", body)
}
