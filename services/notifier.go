package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// WhatsAppNotifier sends messages through the UltraMsg chat API. Failures
// are logged and reported as undelivered, never raised.
type WhatsAppNotifier struct {
	InstanceID string
	Token      string
	Client     *http.Client
}

func NewWhatsAppNotifier(instanceID, token string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		InstanceID: instanceID,
		Token:      token,
		Client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *WhatsAppNotifier) Send(ctx context.Context, mobile, message string) bool {
	// Local 03xxxxxxxxx becomes international 923xxxxxxxxx.
	formatted := mobile
	if strings.HasPrefix(formatted, "03") {
		formatted = "92" + formatted[1:]
	}

	endpoint := "https://api.ultramsg.com/" + w.InstanceID + "/messages/chat"
	form := url.Values{}
	form.Set("token", w.Token)
	form.Set("to", formatted)
	form.Set("body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		logrus.Errorf("❌ WhatsApp request build failed: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.Client.Do(req)
	if err != nil {
		logrus.Errorf("❌ WhatsApp API error: %v", err)
		return false
	}
	defer resp.Body.Close()

	var result struct {
		Sent interface{} `json:"sent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logrus.Errorf("❌ WhatsApp API response decode failed: %v", err)
		return false
	}

	switch v := result.Sent.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
