package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type NodeClient struct {
	baseURL string
	client  *http.Client
}

type writeRequest struct {
	Owner   string `json:"owner"`
	Payload string `json:"payload"`
}

type writeResponse struct {
	ReceiptID string `json:"receipt_id"`
}

func NewNodeClient(nodeURL string, timeout time.Duration) *NodeClient {
	return &NodeClient{
		baseURL: strings.TrimRight(nodeURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *NodeClient) Write(ctx context.Context, owner string, payload string) (string, error) {
	endpoint := c.baseURL + "/v1/records"
	data, err := json.Marshal(writeRequest{Owner: owner, Payload: payload})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ledger write failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var out writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ReceiptID == "" {
		return "", fmt.Errorf("ledger returned empty receipt")
	}
	return out.ReceiptID, nil
}
