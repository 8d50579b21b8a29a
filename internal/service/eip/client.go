package eip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ForecastGate/internal/domain/models"
	xhttp "ForecastGate/pkg/http"
)

const (
	pathOHLCForecast       = "/forecast/ohlc"
	pathUnivariateForecast = "/forecast/univariate"
	pathChainPropagation   = "/propagation/check"
	pathUserSignup         = "/user/signup"

	apiKeyHeader = "X-API-Key"
)

// Client talks to the EIP forecasting API.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// NewClient builds a client for baseURL authenticated with apiKey.
// A zero timeout leaves request duration to the EIP API.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...xhttp.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("eip: api key is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("eip: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("eip: base url %q must be http or https", baseURL)
	}

	opts = append([]xhttp.ClientOption{
		xhttp.WithTimeout(timeout),
		xhttp.WithHeader(apiKeyHeader, apiKey),
		xhttp.WithHeader("Accept", "application/json"),
	}, opts...)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(opts...),
	}, nil
}

func (c *Client) OHLCForecast(ctx context.Context, call *models.ForecastCall) (json.RawMessage, error) {
	return c.postJSON(ctx, pathOHLCForecast, call)
}

func (c *Client) UnivariateForecast(ctx context.Context, call *models.ForecastCall) (json.RawMessage, error) {
	return c.postJSON(ctx, pathUnivariateForecast, call)
}

func (c *Client) CheckChainPropagation(ctx context.Context, call *models.PropagationCall) (json.RawMessage, error) {
	return c.postJSON(ctx, pathChainPropagation, call)
}

func (c *Client) UserSignup(ctx context.Context, payload *models.SignupPayload) (json.RawMessage, error) {
	return c.postJSON(ctx, pathUserSignup, map[string]interface{}{"payload": payload})
}

// postJSON posts payload under baseURL and returns the raw response body.
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + path,
		Body:   payload,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("post %s: %s", path, remoteMessage(err))
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("post %s: empty response body", path)
	}
	return raw, nil
}

// remoteMessage extracts the human readable part of an EIP error body.
func remoteMessage(err error) string {
	var se *xhttp.StatusError
	if !errors.As(err, &se) {
		return err.Error()
	}

	var body struct {
		Detail  interface{} `json:"detail"`
		Message string      `json:"message"`
		Error   string      `json:"error"`
	}
	if json.Unmarshal([]byte(se.Body), &body) == nil {
		switch {
		case body.Message != "":
			return fmt.Sprintf("status %d: %s", se.Code, body.Message)
		case body.Error != "":
			return fmt.Sprintf("status %d: %s", se.Code, body.Error)
		case body.Detail != nil:
			if s, ok := body.Detail.(string); ok {
				return fmt.Sprintf("status %d: %s", se.Code, s)
			}
			b, _ := json.Marshal(body.Detail)
			return fmt.Sprintf("status %d: %s", se.Code, b)
		}
	}
	return se.Error()
}
