package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrMalformed is returned when the service answers 2xx with a body that
// is not a usable prediction.
var ErrMalformed = errors.New("malformed response")

func malformedf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, format, args...)
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server response status code: %d, body: %s", e.Code, e.Body)
}

// RequestIDHeader carries a per-request id the backend can log.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is kept for logs.
const maxErrorBody = 512

type Client struct {
	url     *url.URL
	client  *http.Client
	timeout time.Duration
}

// NewClient returns a client for the service rooted at endpoint. A nil
// http.Client means http.DefaultClient. A zero timeout waits for as long
// as the context allows.
func NewClient(endpoint string, client *http.Client, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid url %q: scheme must be http or https", endpoint)
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &Client{url: u, client: client, timeout: timeout}, nil
}

// Endpoint returns the service root.
func (c *Client) Endpoint() string { return c.url.String() }

func (c *Client) Predict(ctx context.Context, image string) (Result, error) {
	body, err := json.Marshal(Request{Image: image})
	if err != nil {
		return Result{}, errors.Wrap(err, "encode request")
	}

	var wire struct {
		Prediction    *int               `json:"prediction"`
		Confidence    *float64           `json:"confidence"`
		Probabilities map[string]float64 `json:"probabilities"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/predict", body, &wire); err != nil {
		return Result{}, err
	}

	switch {
	case wire.Prediction == nil:
		return Result{}, malformedf("missing prediction")
	case wire.Confidence == nil:
		return Result{}, malformedf("missing confidence")
	case wire.Probabilities == nil:
		return Result{}, malformedf("missing probabilities")
	}
	res := Result{
		Prediction:    *wire.Prediction,
		Confidence:    *wire.Confidence,
		Probabilities: wire.Probabilities,
	}
	if err := res.validate(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Health asks the service whether it is up and has a model loaded.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// ModelInfo describes the model behind the service.
func (c *Client) ModelInfo(ctx context.Context) (ModelInfo, error) {
	var m ModelInfo
	if err := c.do(ctx, http.MethodGet, "/api/model-info", nil, &m); err != nil {
		return ModelInfo{}, err
	}
	return m, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	_url := c.url.JoinPath(path).String()
	request, err := http.NewRequestWithContext(ctx, method, _url, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	id := uuid.NewString()
	request.Header.Set(RequestIDHeader, id)

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer response.Body.Close()

	log.Debug().
		Str("request_id", id).
		Str("method", method).
		Str("path", path).
		Int("status", response.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("prediction service")

	if response.StatusCode < 200 || response.StatusCode > 299 {
		resp, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return &StatusError{Code: response.StatusCode, Body: string(resp)}
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(err, "read response body")
	}
	// the whole body must be one JSON value
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(ErrMalformed, "decode response body: %v", err)
	}
	return nil
}
