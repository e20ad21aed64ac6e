// Package notify sends outbound email notifications through the Resend API.
// Notifications are a best-effort side effect of an already committed
// operation: callers dispatch them asynchronously and only log failures.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendNotifier delivers emails via the Resend HTTP API.
type ResendNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
	clientURL string
	client    *http.Client
	logger    *zap.Logger
}

// NewResendNotifier creates a notifier. With an empty API key every send is
// a logged no-op, which keeps local development working without credentials.
func NewResendNotifier(apiKey, fromEmail, fromName, clientURL string, logger *zap.Logger) *ResendNotifier {
	return &ResendNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		clientURL: clientURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendWelcomeEmail greets a freshly signed-up user.
func (n *ResendNotifier) SendWelcomeEmail(ctx context.Context, to *domain.User) error {
	subject := "Welcome to Chatly!"
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your account is ready. Start chatting at <a href="%s">%s</a>.</p>`,
		to.FullName, n.clientURL, n.clientURL)
	return n.send(ctx, to.Email, subject, html)
}

// SendNewMessageEmail tells the receiver about a message they got while it
// may have gone unseen.
func (n *ResendNotifier) SendNewMessageEmail(ctx context.Context, sender, receiver *domain.User, message *domain.Message) error {
	subject := fmt.Sprintf("New message from %s", sender.FullName)
	preview := message.Text
	if preview == "" {
		preview = "Sent you an image."
	}
	html := fmt.Sprintf(
		`<p>%s sent you a message:</p><blockquote>%s</blockquote><p><a href="%s">Open Chatly</a></p>`,
		sender.FullName, preview, n.clientURL)
	return n.send(ctx, receiver.Email, subject, html)
}

func (n *ResendNotifier) send(ctx context.Context, to, subject, html string) error {
	if n.apiKey == "" {
		n.logger.Debug("email skipped, no Resend API key configured",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	body, err := json.Marshal(resendRequest{
		From:    fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API returned %s", resp.Status)
	}
	return nil
}
