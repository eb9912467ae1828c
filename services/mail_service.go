package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/resend/resend-go/v3"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordResetEmail(to, token string) error
}

var mailerInstance Mailer

// ResendMailer sends email through the Resend API.
type ResendMailer struct {
	client      *resend.Client
	from        string
	frontendURL string
}

var (
	resendClient     *resend.Client
	resendClientOnce sync.Once
)

func getResendClient(apiKey string) *resend.Client {
	resendClientOnce.Do(func() {
		resendClient = resend.NewClient(apiKey)
	})
	return resendClient
}

// InitMailer initializes the global mailer. Without an API key a logging
// no-op mailer is installed so development environments still work.
func InitMailer(apiKey, from, frontendURL string) Mailer {
	if apiKey == "" {
		log.Println("RESEND_API_KEY not set, password reset emails will only be logged")
		mailerInstance = &LogMailer{}
		return mailerInstance
	}

	mailerInstance = &ResendMailer{
		client:      getResendClient(apiKey),
		from:        from,
		frontendURL: frontendURL,
	}
	return mailerInstance
}

// GetMailer returns the initialized mailer instance
func GetMailer() Mailer {
	return mailerInstance
}

// SetMailer sets the mailer instance (primarily for testing)
func SetMailer(m Mailer) {
	mailerInstance = m
}

// SendPasswordResetEmail delivers the reset link for the given token.
func (m *ResendMailer) SendPasswordResetEmail(to, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s", m.frontendURL, token, to)

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Reset your password",
		Html: fmt.Sprintf(`<p>Someone requested a password reset for your account.</p>
<p><a href="%s">Reset password</a></p>
<p>This link expires in 60 minutes. If you did not request it, you can ignore this email.</p>`, resetLink),
	}

	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// LogMailer writes email to the log instead of sending it.
type LogMailer struct{}

// SendPasswordResetEmail logs the reset token.
func (m *LogMailer) SendPasswordResetEmail(to, token string) error {
	log.Printf("password reset for %s, token %s", to, token)
	return nil
}

// MockMailer records sent email for test assertions.
type MockMailer struct {
	mu   sync.Mutex
	Sent []MockMail
}

// MockMail is one recorded delivery.
type MockMail struct {
	To    string
	Token string
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SetAsMockForTesting sets this mock as the global mailer instance for testing
func (m *MockMailer) SetAsMockForTesting() {
	SetMailer(m)
}

// SendPasswordResetEmail records the delivery.
func (m *MockMailer) SendPasswordResetEmail(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, MockMail{To: to, Token: token})
	return nil
}
