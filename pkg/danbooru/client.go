package danbooru

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tagscraper/pkg/config"
	"tagscraper/pkg/dtext"
	"tagscraper/pkg/errors"
	"tagscraper/pkg/logger"
)

// DefaultTimeout bounds every request when no timeout is configured
const DefaultTimeout = 10 * time.Second

// Options configures a Client
type Options struct {
	BaseURL   string
	Login     string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// Client is a read-only Danbooru API client. It keeps no state between
// calls and performs a single attempt per request.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	login      string
	apiKey     string
	logger     logger.Logger
}

// NewClient creates a new Danbooru API client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "tagscraper/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		headers: map[string]string{
			"User-Agent": opts.UserAgent,
			"Accept":     "application/json",
		},
		baseURL: opts.BaseURL,
		login:   opts.Login,
		apiKey:  opts.APIKey,
		logger:  log.WithField("component", "danbooru"),
	}
}

// NewClientFromConfig creates a client from the API section of the config
func NewClientFromConfig(cfg *config.DanbooruConfig, log logger.Logger) *Client {
	return NewClient(Options{
		BaseURL:   cfg.BaseURL,
		Login:     cfg.Login,
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	}, log)
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the API host the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with the configured headers and
// credentials
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if c.login != "" && c.apiKey != "" {
		req.SetBasicAuth(c.login, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "request failed")
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration)
	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response into target
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeUnknown, err, "failed to create request")
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.DebugWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: "failed to parse JSON",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	return nil
}

// checkResponseStatus maps non-2xx responses to typed errors
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return errors.FromStatus(resp.StatusCode, fmt.Sprintf("unexpected status %s", resp.Status))
}

// SearchTags returns the tags whose name matches name exactly
func (c *Client) SearchTags(ctx context.Context, name string) ([]Tag, error) {
	var tags []Tag
	if err := c.GetJSON(ctx, TagSearchURL(c.baseURL, name), &tags); err != nil {
		return nil, fmt.Errorf("search tags %q: %w", name, err)
	}
	return tags, nil
}

// SearchWikiPages returns the wiki pages whose title matches title exactly
func (c *Client) SearchWikiPages(ctx context.Context, title string) ([]WikiPage, error) {
	var pages []WikiPage
	if err := c.GetJSON(ctx, WikiSearchURL(c.baseURL, title), &pages); err != nil {
		return nil, fmt.Errorf("search wiki pages %q: %w", title, err)
	}
	return pages, nil
}

// LookupCategory returns the category of the first tag matching tag. Any
// failure is logged and reported as absent.
func (c *Client) LookupCategory(ctx context.Context, tag string) (int, bool) {
	tags, err := c.SearchTags(ctx, tag)
	if err != nil {
		c.logLookupFailure("category", tag, err)
		return 0, false
	}
	if len(tags) == 0 {
		return 0, false
	}
	return tags[0].Category, true
}

// LookupDescription returns the cleaned body of the first wiki page titled
// tag. Missing pages, empty bodies and failures are all reported as absent.
func (c *Client) LookupDescription(ctx context.Context, tag string) (string, bool) {
	pages, err := c.SearchWikiPages(ctx, tag)
	if err != nil {
		c.logLookupFailure("description", tag, err)
		return "", false
	}
	if len(pages) == 0 || pages[0].Body == "" {
		return "", false
	}

	description := dtext.Clean(pages[0].Body, tag)
	if description == "" {
		return "", false
	}
	return description, true
}

func (c *Client) logLookupFailure(lookup, tag string, err error) {
	c.logger.WithError(err).WarnWithFields("lookup failed", map[string]interface{}{
		"lookup":     lookup,
		"tag":        tag,
		"error_type": string(errors.TypeOf(err)),
	})
}
