package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

const (
	emailAPIVersion = "2023-03-31"
	emailScope      = "https://communication.azure.com//.default"
	emailSubjectTag = "Finance Tracker"
)

// EmailService sends import notifications through the Azure Communication
// Services email REST API.
type EmailService struct {
	sendURL    string
	sender     string
	cred       azcore.TokenCredential
	httpClient *http.Client
}

// NewEmailService reads COMMUNICATION_SERVICES_ENDPOINT and SENDER_EMAIL.
// A nil cred falls back to DefaultAzureCredential.
func NewEmailService(cred azcore.TokenCredential) (*EmailService, error) {
	endpoint := strings.TrimSuffix(os.Getenv("COMMUNICATION_SERVICES_ENDPOINT"), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("COMMUNICATION_SERVICES_ENDPOINT environment variable is required")
	}
	sender := os.Getenv("SENDER_EMAIL")
	if sender == "" {
		return nil, fmt.Errorf("SENDER_EMAIL environment variable is required")
	}

	if cred == nil {
		var err error
		if cred, err = newDefaultAzureCredential(); err != nil {
			return nil, fmt.Errorf("create default azure credential: %w", err)
		}
	}

	return &EmailService{
		sendURL:    endpoint + "/emails:send?api-version=" + emailAPIVersion,
		sender:     sender,
		cred:       cred,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type emailAddress struct {
	Address string `json:"address"`
}

type emailRecipients struct {
	To []emailAddress `json:"to"`
}

type emailContent struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type emailRequest struct {
	SenderAddress string          `json:"senderAddress"`
	Content       emailContent    `json:"content"`
	Recipients    emailRecipients `json:"recipients"`
}

func (s *EmailService) newRequest(to []string, subject, body string) emailRequest {
	req := emailRequest{
		SenderAddress: s.sender,
		Content:       emailContent{Subject: subject, HTML: body},
	}
	for _, addr := range to {
		req.Recipients.To = append(req.Recipients.To, emailAddress{Address: addr})
	}
	return req
}

// SendEmail delivers an HTML message. The API answers 202 once the message is
// queued for delivery.
func (s *EmailService) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	token, err := s.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{emailScope}})
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	payload, err := json.Marshal(s.newRequest(to, subject, body))
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	slog.Info("email queued", "recipients", len(to), "subject", subject)
	return nil
}

// SendImportSummary reports a completed import.
func (s *EmailService) SendImportSummary(ctx context.Context, recipients []string, filename string, count int, warnings []string) error {
	subject := fmt.Sprintf("%s - Imported %d transactions", emailSubjectTag, count)
	return s.SendEmail(ctx, recipients, subject, RenderSummaryBody(filename, count, warnings))
}

// SendErrorEmail reports an import that stored nothing.
func (s *EmailService) SendErrorEmail(ctx context.Context, recipients []string, filename string, errs []string) error {
	return s.SendEmail(ctx, recipients, emailSubjectTag+" - Import Failed", RenderErrorBody(filename, errs))
}
