// Package mail sends plain-text email over SMTP with STARTTLS.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender holds the SMTP account the assistant sends from.
type Sender struct {
	Host     string
	Port     int
	From     string
	Password string

	// send is swapped in tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(host string, port int, from, password string) *Sender {
	return &Sender{
		Host:     host,
		Port:     port,
		From:     from,
		Password: password,
		send:     smtp.SendMail,
	}
}

// Send delivers one message. Configuration gaps surface as errors, not
// panics; the assistant turns them into a spoken apology.
func (s *Sender) Send(to, subject, body string) error {
	if s.From == "" || s.Password == "" {
		return fmt.Errorf("mail account not configured")
	}
	if !strings.Contains(to, "@") {
		return fmt.Errorf("bad recipient address %q", to)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.From, to, subject, body)
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)
	return s.send(addr, auth, s.From, []string{to}, []byte(msg))
}
