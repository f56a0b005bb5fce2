package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildMessage_Headers(t *testing.T) {
	m := buildMessage(Message{
		From:    "noreply@piot.co.za",
		To:      "michael@piot.co.za",
		Subject: "[PIOT-1] Acme - Jane Doe - Support Request",
		HTML:    "<p>hello</p>",
		ReplyTo: "jane@acme.co.za",
	})

	assert.Equal(t, []string{"noreply@piot.co.za"}, m.GetHeader("From"))
	assert.Equal(t, []string{"michael@piot.co.za"}, m.GetHeader("To"))
	assert.Equal(t, []string{"jane@acme.co.za"}, m.GetHeader("Reply-To"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Content-Type: text/html")
	assert.Contains(t, buf.String(), "<p>hello</p>")
}

func TestBuildMessage_OmitsEmptyReplyTo(t *testing.T) {
	m := buildMessage(Message{From: "a@example.com", To: "b@example.com", Subject: "s", HTML: "x"})
	assert.Empty(t, m.GetHeader("Reply-To"))
}

func TestSMTPSender_HonoursCancelledContext(t *testing.T) {
	sender := &SMTPSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, Message{To: "b@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(zap.NewNop()).Send(context.Background(), Message{To: "b@example.com"}))
}
