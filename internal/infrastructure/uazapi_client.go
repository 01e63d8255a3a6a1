package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"project_zapflow/internal/interfaces"
)

// UazapiClient talks to the messaging gateway's HTTP API. Only the
// send-text endpoint is used; inbound traffic arrives via our webhook.
type UazapiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewUazapiClient(baseURL, token string) interfaces.Gateway {
	return &UazapiClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendText delivers a text message to a phone number and returns the
// gateway's raw response body.
func (u *UazapiClient) SendText(number, text string) (json.RawMessage, error) {
	payload := map[string]string{
		"number": number,
		"text":   text,
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", u.baseURL+"/send/text", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", u.token)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway send failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway response read failed: %w", err)
	}
	return json.RawMessage(body), nil
}
