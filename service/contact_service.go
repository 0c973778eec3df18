package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

const turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// ContactService delivers contact-form messages over SMTP after bot
// verification. A filled honeypot field is reported as success without
// sending anything.
type ContactService struct {
	smtpHost        string
	smtpPort        int
	smtpUser        string
	smtpPass        string
	fromAddr        string
	toAddr          string
	turnstileSecret string
	httpClient      *http.Client
}

// ContactServiceOption is a functional option for ContactService
type ContactServiceOption func(*ContactService)

// ContactWithHTTPClient overrides the Turnstile verification client
func ContactWithHTTPClient(client *http.Client) ContactServiceOption {
	return func(s *ContactService) {
		s.httpClient = client
	}
}

// NewContactService creates a contact service from environment variables
func NewContactService(opts ...ContactServiceOption) *ContactService {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	s := &ContactService{
		smtpHost:        os.Getenv("SMTP_HOST"),
		smtpPort:        port,
		smtpUser:        os.Getenv("SMTP_USER"),
		smtpPass:        os.Getenv("SMTP_PASS"),
		fromAddr:        from,
		toAddr:          os.Getenv("CONTACT_TO_EMAIL"),
		turnstileSecret: os.Getenv("TURNSTILE_SECRET_KEY"),
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrMissingContactFields = errors.New("please fill all required fields")
	ErrVerifyNotConfigured  = errors.New("spam protection is not configured")
	ErrMissingToken         = errors.New("please complete the verification")
	ErrVerifyFailed         = errors.New("verification failed")
	ErrMailNotConfigured    = errors.New("email service is not configured")
	ErrMailFailed           = errors.New("unable to send message")
)

// ContactRequest represents one contact-form submission. Company is the
// honeypot field: humans never see it, bots fill it.
type ContactRequest struct {
	Name           string
	Email          string
	Message        string
	Company        string
	TurnstileToken string
}

// Send validates, verifies and delivers one submission.
func (s *ContactService) Send(ctx context.Context, req ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	company := strings.TrimSpace(req.Company)
	token := strings.TrimSpace(req.TurnstileToken)

	// Honeypot tripped: pretend success, send nothing.
	if company != "" {
		return nil
	}

	if name == "" || email == "" || message == "" {
		return ErrMissingContactFields
	}
	if s.turnstileSecret == "" {
		return ErrVerifyNotConfigured
	}
	if token == "" {
		return ErrMissingToken
	}
	if err := s.verifyTurnstile(ctx, token); err != nil {
		return err
	}

	if s.smtpHost == "" || s.smtpUser == "" || s.smtpPass == "" || s.toAddr == "" || s.fromAddr == "" {
		return ErrMailNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(s.fromAddr); err != nil {
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}
	if err := msg.To(s.toAddr); err != nil {
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}
	if err := msg.ReplyTo(email); err != nil {
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}
	msg.Subject("Contact request from " + name)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("Name: %s\nEmail: %s\n\n%s", name, email, message))

	clientOpts := []mail.Option{
		mail.WithPort(s.smtpPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.smtpUser),
		mail.WithPassword(s.smtpPass),
	}
	if s.smtpPort == 465 {
		clientOpts = append(clientOpts, mail.WithSSL())
	}
	client, err := mail.NewClient(s.smtpHost, clientOpts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}
	return nil
}

func (s *ContactService) verifyTurnstile(ctx context.Context, token string) error {
	form := url.Values{
		"secret":   {s.turnstileSecret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, "POST", turnstileVerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	defer resp.Body.Close()

	var verify struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verify); err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	if !verify.Success {
		return ErrVerifyFailed
	}
	return nil
}
