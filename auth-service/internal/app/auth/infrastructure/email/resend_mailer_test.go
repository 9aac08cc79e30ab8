package email

import (
	"bytes"
	"context"
	"testing"
	"time"

	"eventhub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReset(t *testing.T) {
	html, err := renderReset(resetData{
		Username:  "alice",
		ResetLink: "https://events.example.com/reset-password?token=abc",
		ValidFor:  time.Hour.String(),
		Year:      2026,
	})

	require.NoError(t, err)
	assert.Contains(t, html, "Hi alice,")
	assert.Contains(t, html, `href="https://events.example.com/reset-password?token=abc"`)
	assert.Contains(t, html, "valid for 1h0m0s")
}

func TestRenderReset_EscapesUsername(t *testing.T) {
	html, err := renderReset(resetData{Username: "<script>alert(1)</script>", ResetLink: "https://x"})

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestNewResendMailer_FromHeader(t *testing.T) {
	m := NewResendMailer("re_test", "no-reply@eventhub.local", "EventHub", time.Hour)

	assert.Equal(t, "EventHub <no-reply@eventhub.local>", m.from)
	assert.NotNil(t, m.client)
}

func TestLogMailer_DoesNotLeakLink(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("auth-service", "debug", &buf)
	t.Cleanup(func() { logger.Init("auth-service", "info") })

	err := LogMailer{}.SendPasswordReset(context.Background(), "alice@example.com", "alice", "https://x/reset-password?token=secret")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "alice@example.com")
	assert.NotContains(t, buf.String(), "secret")
}
