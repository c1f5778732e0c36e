package users

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

const requestTimeout = time.Second * 5

// Client checks user existence against the external user service.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a Client for the user service at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout),
		logger: logger,
	}
}

// Exists reports whether the user is known to the user service.
func (c *Client) Exists(userID string) (bool, error) {
	res, err := c.http.R().
		SetPathParam("id", userID).
		Get("/users/{id}")
	if err != nil {
		c.logger.Error("error making request to user service", zap.String("user_id", userID), zap.Error(err))
		return false, fmt.Errorf("error making request to user service: %w", err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("user service returned unexpected status: %d", res.StatusCode())
	}
}

// Close releases resources held by the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}
