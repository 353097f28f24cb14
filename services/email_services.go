package services

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"academy/config"
)

type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService() *EmailService {
	return &EmailService{
		host:     config.MailHost,
		port:     config.MailPort,
		username: config.MailUsername,
		password: config.MailPassword,
		from:     config.MailFrom,
		send:     smtp.SendMail,
	}
}

// Configured reports whether an SMTP host was set
func (s *EmailService) Configured() bool {
	return s.host != ""
}

// Notify sends the message to the team's contact address
func (s *EmailService) Notify(ctx context.Context, msg Message) error {
	if msg.Recipient == "" {
		return fmt.Errorf("team %d has no contact email", msg.TeamID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	return s.send(s.host+":"+s.port, auth, s.from, []string{msg.Recipient}, s.render(msg))
}

func (s *EmailService) render(msg Message) []byte {
	htmlTemplate := strings.TrimSpace(`
To: %s
From: %s
MIME-version: 1.0
Content-Type: text/html; charset="UTF-8"
Subject: [IBP Academy] %s

<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
</head>
<body style="background-color: #f9fafb; margin: 0; padding: 0; font-family: Arial, sans-serif;">
    <table width="100%%" cellpadding="0" cellspacing="0" style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <tr>
            <td style="background: #0f172a; padding: 40px 20px; text-align: center; border-radius: 12px;">
                <h1 style="color: #ffffff; margin-bottom: 30px; font-size: 22px;">%s</h1>
                <p style="color: #cbd5e1; font-size: 16px; white-space: pre-line;">%s</p>
                <a href="%s/dashboard" style="display: inline-block; background-color: #2563eb; color: #ffffff; text-decoration: none; padding: 12px 30px; border-radius: 25px; font-weight: bold;">Open dashboard</a>
            </td>
        </tr>
    </table>
</body>
</html>
`)

	subject := html.EscapeString(msg.Subject)
	return []byte(fmt.Sprintf(htmlTemplate, msg.Recipient, s.from, msg.Subject, subject, subject, html.EscapeString(msg.Body), config.ClientUrl))
}
