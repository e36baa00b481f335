package services_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noobsmoke/auth-service/internal/lib/smtp"
	"github.com/noobsmoke/auth-service/internal/models"
	"github.com/noobsmoke/auth-service/internal/services"
)

// fakeClient пишет письмо в буфер вместо сети.
type fakeClient struct {
	from    string
	rcpts   []string
	body    bytes.Buffer
	quit    bool
	mailErr error
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (c *fakeClient) Mail(from string) error {
	if c.mailErr != nil {
		return c.mailErr
	}
	c.from = from
	return nil
}

func (c *fakeClient) Rcpt(to string) error {
	c.rcpts = append(c.rcpts, to)
	return nil
}

func (c *fakeClient) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.body}, nil
}

func (c *fakeClient) Quit() error {
	c.quit = true
	return nil
}

func (c *fakeClient) Close() error { return nil }

type fakeTransport struct {
	client     *fakeClient
	connectErr error
}

func (t *fakeTransport) Connect() (smtp.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}

func (t *fakeTransport) GetSMTPUser() string { return "noreply@example.com" }

func TestSenderService_SendVerificationEmail(t *testing.T) {
	code := "12345"
	user := &models.User{
		Username:         "alice",
		Email:            "alice@x.com",
		VerificationCode: &code,
	}

	client := &fakeClient{}
	transport := &fakeTransport{client: client}
	svc := services.NewSenderService(noopLogger(), transport)

	err := svc.SendVerificationEmail(user)
	require.NoError(t, err)

	assert.Equal(t, "noreply@example.com", client.from)
	assert.Equal(t, []string{"alice@x.com"}, client.rcpts)
	assert.True(t, client.quit)

	msg := client.body.String()
	assert.Contains(t, msg, "Subject: Account Verification (alice)")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, code)
}

func TestSenderService_SendVerificationEmail_NoPendingCode(t *testing.T) {
	svc := services.NewSenderService(noopLogger(), &fakeTransport{client: &fakeClient{}})

	err := svc.SendVerificationEmail(&models.User{Username: "alice", Email: "alice@x.com"})
	assert.Error(t, err)
}

func TestSenderService_SendVerificationEmail_ConnectError(t *testing.T) {
	code := "12345"
	user := &models.User{Username: "alice", Email: "alice@x.com", VerificationCode: &code}

	svc := services.NewSenderService(noopLogger(), &fakeTransport{connectErr: errors.New("dial refused")})

	err := svc.SendVerificationEmail(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dial refused")
}
