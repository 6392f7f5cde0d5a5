// Package mail delivers transactional email on a bounded background queue.
package mail

import (
	"context"
	"fmt"
	"log"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the process log instead of sending them.
type LogSender struct {
	logger *log.Logger
}

// NewLogSender creates a LogSender. A nil logger uses the standard logger.
func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Printf("mail to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Text)
	return nil
}

// PasswordResetRequest is sent by forgot-password and resend-reset-link.
func PasswordResetRequest(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Password Reset Request",
		Text:    fmt.Sprintf("Click the link to reset your password: %s", link),
		HTML:    fmt.Sprintf(`<p>Click the link to reset your password: <a href="%s">%s</a></p>`, link, link),
	}
}

// PasswordResetDone confirms a completed reset.
func PasswordResetDone(to string) Message {
	return Message{
		To:      to,
		Subject: "Password Reset",
		Text:    "Your password was reset successfully!",
		HTML:    "<h5>Your password was reset successfully!</h5>",
	}
}

// ClassRepAssigned tells a student about their promotion.
func ClassRepAssigned(to string) Message {
	return Message{
		To:      to,
		Subject: "Class Representative Assignment",
		Text: "Dear Student,\n\nYou have been assigned as the Class Representative.\n\n" +
			"Please check with the administration for further details.\n\nBest regards,\nAdmin Team",
	}
}
