package aliyun

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trafficwarden/configuration"
	"trafficwarden/errors"
)

const (
	packageName = "aliyun"
)

// Client issues signed RPC-style calls against the provider API. Every
// request carries a fresh nonce and timestamp and is used exactly once.
type Client struct {
	accessKeyID     string
	accessKeySecret string
	httpClient      *http.Client

	// injectable for deterministic signing tests
	now   func() time.Time
	nonce func() string
}

// NewClient builds a signed request client from the loaded configuration.
func NewClient(cfg *configuration.Config) (*Client, error) {
	if cfg == nil || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, errors.New(errors.ErrCredentialsMissing, "access key credentials are required",
			map[string]interface{}{
				"operation": "client_creation",
			}, nil)
	}

	timeout := time.Duration(cfg.HTTPTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		accessKeyID:     cfg.AccessKeyID,
		accessKeySecret: cfg.AccessKeySecret,
		httpClient:      &http.Client{Timeout: timeout},
		now:             time.Now,
		nonce:           uuid.NewString,
	}, nil
}

// Call signs the given action parameters and issues the request against
// https://{domain}/. It returns the raw JSON body on 2xx responses and an
// ErrRequestFailed carrying status and body text otherwise.
func (c *Client) Call(ctx context.Context, domain string, params map[string]string) ([]byte, error) {
	logger := zap.L().With(
		zap.String("package", packageName),
		zap.String("function", "Call"),
		zap.String("domain", domain),
		zap.String("action", params["Action"]),
	)

	signed := make(map[string]string, len(params)+6)
	for key, value := range params {
		signed[key] = value
	}
	signed["AccessKeyId"] = c.accessKeyID
	signed["Format"] = "JSON"
	signed["SignatureMethod"] = "HMAC-SHA1"
	signed["SignatureVersion"] = "1.0"
	signed["SignatureNonce"] = c.nonce()
	signed["Timestamp"] = c.now().UTC().Format("2006-01-02T15:04:05Z")

	requestURL := "https://" + domain + "/?" + signedQuery(http.MethodPost, signed, c.accessKeySecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, nil)
	if err != nil {
		return nil, errors.New(errors.ErrRequestFailed, "failed to build request",
			map[string]interface{}{
				"domain": domain,
				"action": params["Action"],
			}, err)
	}

	logger.Info("Issuing signed request",
		zap.String("operation", "api_call"),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Request failed",
			zap.String("operation", "api_call"),
			zap.Error(err),
		)
		return nil, errors.New(errors.ErrRequestFailed, "request failed",
			map[string]interface{}{
				"domain": domain,
				"action": params["Action"],
			}, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrRequestFailed, "failed to read response body",
			map[string]interface{}{
				"domain": domain,
				"action": params["Action"],
				"status": resp.StatusCode,
			}, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("Non-success response",
			zap.String("operation", "api_call"),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, errors.New(errors.ErrRequestFailed, "non-success response",
			map[string]interface{}{
				"domain": domain,
				"action": params["Action"],
				"status": resp.StatusCode,
				"reason": resp.Status,
				"body":   string(body),
			}, nil)
	}

	return body, nil
}

// decode parses a response body into a typed result. A decode failure is a
// distinct error kind from an HTTP failure.
func decode(body []byte, out interface{}, action string) error {
	if err := json.Unmarshal(body, out); err != nil {
		return errors.New(errors.ErrResponseParse, "malformed JSON response",
			map[string]interface{}{
				"action": action,
			}, err)
	}
	return nil
}
