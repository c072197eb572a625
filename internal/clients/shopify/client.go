package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/pkg/httpx"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

// CartClient is the typed boundary to the commerce backend's cart resource.
// Every call is a fresh round trip; nothing is cached.
type CartClient interface {
	CreateCart(ctx context.Context, line types.CartLine) (*types.CartSnapshot, error)
	FetchCart(ctx context.Context, cartID string) (*types.CartSnapshot, error)
	AddLine(ctx context.Context, cartID string, line types.CartLine) (*types.CartSnapshot, error)
	UpdateLine(ctx context.Context, cartID, variantID string, quantity int) (*types.CartSnapshot, error)
	RemoveLine(ctx context.Context, cartID, variantID string) (*types.CartSnapshot, error)
}

// CatalogClient is the read-only catalog collaborator. The cart core never
// mutates catalog data.
type CatalogClient interface {
	FetchProducts(ctx context.Context, limit int, query string) ([]types.Product, error)
	FetchProductByHandle(ctx context.Context, handle string) (*types.Product, error)
}

// Client is the full Storefront API surface used by the backend.
type Client interface {
	CartClient
	CatalogClient
}

var (
	// ErrCartNotFound reports a cart id the backend no longer recognizes.
	ErrCartNotFound = fmt.Errorf("cart: %w", pkgerrors.ErrNotFound)
	// ErrLineNotFound reports a cart line that vanished remotely.
	ErrLineNotFound = fmt.Errorf("cart line: %w", pkgerrors.ErrNotFound)
	// ErrProductNotFound reports a catalog handle with no product behind it.
	ErrProductNotFound = fmt.Errorf("product: %w", pkgerrors.ErrNotFound)
)

// NetworkError marks transport-level failures (timeouts, connection errors,
// exhausted retries on 5xx). Transient; the caller may retry the operation.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("shopify network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type client struct {
	log        *logger.Logger
	endpoint   string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewClient reads SHOPIFY_* env configuration. SHOPIFY_API_URL overrides the
// derived endpoint (used by tests to point at a local server).
func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	token := strings.TrimSpace(os.Getenv("SHOPIFY_STOREFRONT_TOKEN"))
	if token == "" {
		return nil, fmt.Errorf("missing SHOPIFY_STOREFRONT_TOKEN")
	}

	endpoint := strings.TrimSpace(os.Getenv("SHOPIFY_API_URL"))
	if endpoint == "" {
		domain := strings.TrimSpace(os.Getenv("SHOPIFY_STORE_DOMAIN"))
		if domain == "" {
			return nil, fmt.Errorf("missing SHOPIFY_STORE_DOMAIN")
		}
		version := strings.TrimSpace(os.Getenv("SHOPIFY_API_VERSION"))
		if version == "" {
			version = "2024-01"
		}
		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", domain, version)
	}

	timeoutSec := 15
	if v := os.Getenv("SHOPIFY_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("SHOPIFY_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "ShopifyClient"),
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type shopifyHTTPError struct {
	StatusCode int
	Body       string
}

func (e *shopifyHTTPError) Error() string {
	return fmt.Sprintf("shopify http %d: %s", e.StatusCode, e.Body)
}

func (e *shopifyHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

func (c *client) doOnce(ctx context.Context, req graphqlRequest) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, nil, err
	}
	httpReq.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &shopifyHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

// do runs a GraphQL request with bounded retries and decodes data into out.
// Transport failures and exhausted retries come back as *NetworkError.
func (c *client) do(ctx context.Context, req graphqlRequest, out any) error {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return &NetworkError{Err: ctx.Err()}
		}

		resp, raw, err := c.doOnce(ctx, req)
		if err == nil {
			var envelope graphqlResponse
			if uErr := json.Unmarshal(raw, &envelope); uErr != nil {
				return fmt.Errorf("shopify decode error: %w; raw=%s", uErr, string(raw))
			}
			if len(envelope.Errors) > 0 {
				msgs := make([]string, 0, len(envelope.Errors))
				for _, ge := range envelope.Errors {
					msgs = append(msgs, ge.Message)
				}
				return fmt.Errorf("shopify graphql error: %s: %w", strings.Join(msgs, "; "), pkgerrors.ErrInvalidArgument)
			}
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(envelope.Data, out); uErr != nil {
				return fmt.Errorf("shopify decode error: %w; raw=%s", uErr, string(envelope.Data))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			var sc *shopifyHTTPError
			if errors.As(err, &sc) {
				return err
			}
			return &NetworkError{Err: err}
		}
		if attempt == c.maxRetries {
			return &NetworkError{Err: err}
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 5*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Shopify request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
