// Package whatsapp is a minimal client for the WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"aquaops/internal/config"
)

// APIClient sends text messages through the Cloud API.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a client from cfg.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	c := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", "Bearer "+cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &APIClient{httpClient: c, phoneNumberID: cfg.PhoneNumberID}
}

// SendTextResponse mirrors the successful response from Meta.
type SendTextResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MessageID returns the ID of the first accepted message.
func (r *SendTextResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// SendText sends body to the phone number to.
func (c *APIClient) SendText(ctx context.Context, to, body string) (*SendTextResponse, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                NormalizePhone(to),
		"type":              "text",
		"text": map[string]any{
			"body":        body,
			"preview_url": false,
		},
	}

	result := new(SendTextResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(c.phoneNumberID + "/messages")
	if err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return nil, fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}
	return result, nil
}

// NormalizePhone strips everything but digits. The Cloud API expects the
// international number without the leading plus.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
