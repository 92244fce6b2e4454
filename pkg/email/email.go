package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"go-workwise-backend/config"
)

// Service sends transactional mail over SMTP.
type Service struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
}

// ContactData holds the help & support form payload for the internal
// notification email.
type ContactData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// ActivationData holds the fields of the account-activated email sent to a
// worker after payment verification. The code here is the one-time plaintext;
// it is never persisted.
type ActivationData struct {
	FirstName      string
	ActivationCode string
	LoginURL       string
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		toEmail:   cfg.SupportEmailTo,
	}
}

const contactTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Support Request</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1a7f5a; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #1a7f5a; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Support Request</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">From:</div>
                <div>{{.SenderName}} ({{.SenderEmail}})</div>
            </div>
            <div class="field">
                <div class="label">Subject:</div>
                <div>{{.Subject}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent from the WorkWise help &amp; support form.</p>
            <p>To reply, send an email to: {{.SenderEmail}}</p>
        </div>
    </div>
</body>
</html>`

const activationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your account is active</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1a7f5a; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .code { font-size: 24px; letter-spacing: 3px; font-weight: bold; background: white; padding: 15px; text-align: center; border: 1px dashed #1a7f5a; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome to WorkWise, {{.FirstName}}!</h1>
        </div>
        <div class="content">
            <p>Your registration payment has been verified and your worker account is now active.</p>
            <p>Your activation code:</p>
            <div class="code">{{.ActivationCode}}</div>
            <p>Keep this code safe. Support may ask for it to confirm your identity.</p>
            <p><a href="{{.LoginURL}}">Sign in to your dashboard</a> to start browsing opportunities.</p>
        </div>
        <div class="footer">
            <p>You are receiving this email because you registered as a worker on WorkWise.</p>
        </div>
    </div>
</body>
</html>`

// SendContact forwards a support form submission to the support inbox.
func (s *Service) SendContact(data ContactData) error {
	body, err := render("contact", contactTemplate, data)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Support Request: %s", data.Subject)
	return s.send(s.toEmail, data.SenderEmail, subject, body)
}

// SendActivation mails the one-time activation code to the worker.
func (s *Service) SendActivation(to string, data ActivationData) error {
	body, err := render("activation", activationTemplate, data)
	if err != nil {
		return err
	}
	return s.send(to, "", "Your WorkWise account is active", body)
}

func render(name, tpl string, data any) (string, error) {
	t, err := template.New(name).Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *Service) send(to, replyTo, subject, htmlBody string) error {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\n", s.fromEmail, to)
	if replyTo != "" {
		headers += fmt.Sprintf("Reply-To: %s\r\n", replyTo)
	}
	msg := []byte(fmt.Sprintf(
		"%sSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		headers, subject, htmlBody,
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured reports whether SMTP credentials are present.
func (s *Service) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
