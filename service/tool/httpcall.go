package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultCallTimeout bounds a single tool endpoint call.
const DefaultCallTimeout = 30 * time.Second

// PostJSON sends payload to url and decodes the JSON response into result.
// Non-2xx responses are errors carrying the response body for diagnostics.
func PostJSON(ctx context.Context, client *http.Client, url string, payload, result interface{}) error {
	if client == nil {
		client = &http.Client{Timeout: DefaultCallTimeout}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("tool call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read tool response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tool endpoint %v returned %v: %s", url, resp.StatusCode, body)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("invalid tool response payload: %w", err)
	}
	return nil
}
