package gradio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrPredictionFailed is returned when the space reports an error event
var ErrPredictionFailed = errors.New("gradio prediction failed")

// callRequest is the body of POST /call/<api>
type callRequest struct {
	Data []interface{} `json:"data"`
}

// callResponse is the reply to POST /call/<api>
type callResponse struct {
	EventID string `json:"event_id"`
}

// Client calls one endpoint of a hosted Gradio space.
// A prediction is a POST that queues the job followed by a GET that streams its events.
type Client struct {
	baseURL    string
	apiName    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Gradio client. apiName is the endpoint name, for example "/predict".
func NewClient(baseURL, apiName, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiName: strings.Trim(apiName, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// URL returns the base URL of the space
func (c *Client) URL() string {
	return c.baseURL
}

// Predict submits inputs to the endpoint and waits for the completed output values
func (c *Client) Predict(ctx context.Context, inputs ...interface{}) ([]json.RawMessage, error) {
	eventID, err := c.submit(ctx, inputs)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Gradio job queued",
		zap.String("space", c.baseURL),
		zap.String("event_id", eventID))

	return c.await(ctx, eventID)
}

func (c *Client) endpoint() string {
	return c.baseURL + "/call/" + c.apiName
}

func (c *Client) submit(ctx context.Context, inputs []interface{}) (string, error) {
	body, err := json.Marshal(callRequest{Data: inputs})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var result callResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.EventID == "" {
		return "", errors.New("gradio space returned no event id")
	}

	return result.EventID, nil
}

func (c *Client) await(ctx context.Context, eventID string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint()+"/"+eventID, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	return readEvents(resp.Body)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// readEvents consumes an event stream until the job completes or fails
func readEvents(r io.Reader) ([]json.RawMessage, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var event string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if out, done, err := dispatch(event, data.String()); done {
				return out, err
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event stream: %w", err)
	}

	// the stream may end without a trailing blank line
	if out, done, err := dispatch(event, data.String()); done {
		return out, err
	}
	return nil, errors.New("event stream ended before the prediction completed")
}

func dispatch(event, data string) ([]json.RawMessage, bool, error) {
	switch event {
	case "complete":
		var out []json.RawMessage
		if err := json.Unmarshal([]byte(data), &out); err != nil {
			return nil, true, fmt.Errorf("failed to decode prediction output: %w", err)
		}
		return out, true, nil
	case "error":
		if data == "" || data == "null" {
			return nil, true, ErrPredictionFailed
		}
		return nil, true, fmt.Errorf("%w: %s", ErrPredictionFailed, data)
	default:
		// generating, heartbeat
		return nil, false, nil
	}
}

func statusError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil || len(body) == 0 {
		return fmt.Errorf("gradio space returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("gradio space returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
