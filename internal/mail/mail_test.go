package mail

import (
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	s := NewSender("smtp.example.com", 587, "nova@example.com", "hunter2")
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, s.Send("friend@example.com", "Hi", "See you at nine."))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "nova@example.com", gotFrom)
	assert.Equal(t, []string{"friend@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hi\r\n\r\nSee you at nine.")
}

func TestSendValidation(t *testing.T) {
	unconfigured := NewSender("smtp.example.com", 587, "", "")
	assert.Error(t, unconfigured.Send("friend@example.com", "Hi", "x"))

	s := NewSender("smtp.example.com", 587, "nova@example.com", "hunter2")
	assert.Error(t, s.Send("not-an-address", "Hi", "x"))
}
