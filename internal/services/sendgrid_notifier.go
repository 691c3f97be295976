package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weddingmatch/backend/internal/models"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridNotifier emails the organizer about each new search request.
type SendGridNotifier struct {
	APIKey     string
	FromEmail  string
	ToEmail    string
	HTTPClient *http.Client
	Endpoint   string
}

func NewSendGridNotifier(apiKey string, fromEmail string, toEmail string) *SendGridNotifier {
	return &SendGridNotifier{
		APIKey:     strings.TrimSpace(apiKey),
		FromEmail:  strings.TrimSpace(fromEmail),
		ToEmail:    strings.TrimSpace(toEmail),
		Endpoint:   sendGridEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// mail/send request body, trimmed to the fields we set.
type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailPersonalization struct {
	To         []mailAddress     `json:"to"`
	Subject    string            `json:"subject"`
	CustomArgs map[string]string `json:"custom_args,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailMessage struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	Content          []mailContent         `json:"content"`
	Categories       []string              `json:"categories,omitempty"`
}

func (n *SendGridNotifier) NotifySearchRequest(ctx context.Context, sr *models.SearchRequest) error {
	if err := n.ready(); err != nil {
		return err
	}
	return n.send(ctx, searchRequestMail(n.FromEmail, n.ToEmail, sr))
}

func (n *SendGridNotifier) ready() error {
	if n == nil {
		return errors.New("sendgrid: notifier not configured")
	}
	var missing []string
	if n.APIKey == "" {
		missing = append(missing, "SENDGRID_API_KEY")
	}
	if n.FromEmail == "" {
		missing = append(missing, "NOTIFY_FROM_EMAIL")
	}
	if n.ToEmail == "" {
		missing = append(missing, "NOTIFY_TO_EMAIL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("sendgrid: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// searchRequestMail renders a plain-text summary for the organizer. Empty
// description fields are left out.
func searchRequestMail(from, to string, sr *models.SearchRequest) mailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Search request %s\n", sr.ID)
	fmt.Fprintf(&b, "Looking for: %s\n", sr.TargetGender)
	for _, f := range [][2]string{
		{"Height", sr.Description.Height},
		{"Hair color", sr.Description.HairColor},
		{"Clothing", sr.Description.Clothing},
		{"Special features", sr.Description.SpecialFeatures},
		{"Connection to event", sr.ConnectionToEvent},
	} {
		if f[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", f[0], f[1])
		}
	}
	fmt.Fprintf(&b, "\nFrom: %s (%s)\n", sr.Searcher.Name, sr.Searcher.Phone)
	if sr.Searcher.AboutMe != "" {
		fmt.Fprintf(&b, "About: %s\n", sr.Searcher.AboutMe)
	}

	return mailMessage{
		Personalizations: []mailPersonalization{{
			To:         []mailAddress{{Email: to}},
			Subject:    "בקשת חיפוש חדשה מ" + sr.Searcher.Name,
			CustomArgs: map[string]string{"searchRequestId": sr.ID},
		}},
		From:       mailAddress{Email: from, Name: "Wedding Match"},
		Content:    []mailContent{{Type: "text/plain", Value: b.String()}},
		Categories: []string{"search-request"},
	}
}

func (n *SendGridNotifier) send(ctx context.Context, msg mailMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("sendgrid: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+n.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := n.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	defer resp.Body.Close()

	// 202 Accepted is the only success status for mail/send.
	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if d := strings.TrimSpace(string(detail)); d != "" {
			return fmt.Errorf("sendgrid: mail send returned http %d: %s", resp.StatusCode, d)
		}
		return fmt.Errorf("sendgrid: mail send returned http %d", resp.StatusCode)
	}
	return nil
}
