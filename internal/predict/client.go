// Package predict submits synthesis parameters to the remote scoring
// service and records the outcome in the history.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
)

// DefaultMaterialCodes maps each material system to the model code the
// scoring service expects. wse2 shares the ws2 model upstream; the mapping
// follows the service's contract, not the UI's four options.
var DefaultMaterialCodes = map[model.Material]string{
	model.MaterialMoS2:  "mos2",
	model.MaterialWS2:   "ws2",
	model.MaterialWSe2:  "ws2",
	model.MaterialMoTe2: "mote2",
}

// Client posts parameters to the remote scoring endpoint. One request per
// submission: no retry, no cancellation beyond the context.
type Client struct {
	baseURL string
	codes   map[model.Material]string
	http    *http.Client
}

// NewClient creates a scoring client for the given endpoint base URL. The
// codes map overrides DefaultMaterialCodes per material; materials it does
// not name keep their default code.
func NewClient(baseURL string, codes map[model.Material]string) *Client {
	merged := make(map[model.Material]string, len(DefaultMaterialCodes))
	for m, code := range DefaultMaterialCodes {
		merged[m] = code
	}
	for m, code := range codes {
		merged[m] = code
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		codes:   merged,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Score requests an outcome label for one submission. The response body only
// needs to carry a "prediction" field; everything else is ignored. The label
// is returned verbatim, valid or not.
func (c *Client) Score(ctx context.Context, material model.Material, p model.Params) (string, error) {
	code, ok := c.codes[material]
	if !ok {
		return "", fmt.Errorf("no scoring code for material %q", material)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+code, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read scoring response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scoring endpoint returned %d: %s", resp.StatusCode, snippet(raw))
	}

	label := gjson.GetBytes(raw, "prediction")
	if !label.Exists() {
		return "", fmt.Errorf("scoring response has no prediction field: %s", snippet(raw))
	}
	return label.String(), nil
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
