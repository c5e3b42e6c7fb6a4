// Package practicum implements the client for the Practicum homework
// statuses API.
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const maxDetailBytes = 512

// ClientConfig contains configuration for the API client.
type ClientConfig struct {
	// Endpoint is the full homework statuses URL
	Endpoint string

	// Token is the OAuth token sent in the Authorization header
	Token string

	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// Client fetches homework status updates. It never retries; the poll loop
// retries on its own schedule.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logrus.Entry
}

func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.WithField("component", "practicum_client"),
	}
}

// Fetch requests homeworks changed since the cursor (Unix seconds) and
// returns the raw JSON body of a 200 response.
func (c *Client) Fetch(ctx context.Context, fromDate int64) (json.RawMessage, error) {
	const op = "fetch"

	u, err := url.Parse(c.config.Endpoint)
	if err != nil {
		return nil, &homework.Error{Kind: homework.KindTransport, Op: op, Detail: "invalid endpoint", Err: err}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &homework.Error{Kind: homework.KindTransport, Op: op, Detail: "create request", Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", fromDate).Debug("Requesting homework statuses")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &homework.Error{Kind: homework.KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &homework.Error{Kind: homework.KindTransport, Op: op, Detail: "read response", Err: err}
	}

	// 204 is an error too: the service never answers it legitimately.
	if resp.StatusCode != http.StatusOK {
		return nil, &homework.Error{
			Kind:       homework.KindUnexpectedStatus,
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(body)),
		}
	}

	if !json.Valid(body) {
		return nil, &homework.Error{
			Kind:       homework.KindMalformedBody,
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     truncate(string(body)),
		}
	}

	return json.RawMessage(body), nil
}

func truncate(s string) string {
	if len(s) <= maxDetailBytes {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:maxDetailBytes], len(s))
}
