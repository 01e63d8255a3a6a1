package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"project_zapflow/internal/interfaces"
)

// N8NClient invokes the automation engine with the enriched inbound payload
// and extracts the reply text from whatever the workflow returns.
type N8NClient struct {
	webhookURL string
	httpClient *http.Client
}

func NewN8NClient(webhookURL string) interfaces.AutomationEngine {
	return &N8NClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Invoke posts the payload and returns the reply text. Workflows answer in
// three known shapes: a JSON object with a "reply" field, a bare JSON
// string, or a plain text body. Plain text is coerced to a reply rather
// than treated as an error.
func (n *N8NClient) Invoke(payload map[string]interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal engine payload: %w", err)
	}

	resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("automation engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("automation engine response read failed: %w", err)
	}

	return ParseEngineReply(body), nil
}

// ParseEngineReply extracts the reply text from an engine response body.
func ParseEngineReply(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	if json.Valid(body) {
		var obj map[string]interface{}
		if err := json.Unmarshal(body, &obj); err == nil {
			if reply, ok := obj["reply"].(string); ok {
				return reply
			}
			return ""
		}
		var str string
		if err := json.Unmarshal(body, &str); err == nil {
			return str
		}
		// Valid JSON but neither an object nor a string (array, number)
		return ""
	}

	// Not JSON: the raw text body is the reply
	return trimmed
}
