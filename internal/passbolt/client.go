package passbolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	logger "github.com/PolarWolf314/wrench/internal/logging"
)

const (
	apiVersion = "v2"

	csrfCookie = "csrfToken"
	csrfHeader = "X-CSRF-Token"
)

// Config holds the connection settings of a Client.
type Config struct {
	ServerURL string

	// HTTPUsername and HTTPPassword enable HTTP basic auth in front of the server.
	HTTPUsername string
	HTTPPassword string

	// RetryMax is the number of retries of a failed GET. Zero uses the default of 3.
	RetryMax int
	Timeout  time.Duration

	Logger logger.Logger
}

// Client talks to a Passbolt server.
type Client struct {
	baseURL *url.URL
	config  Config
	jar     http.CookieJar

	// reads retries idempotent requests, writes never retries.
	reads  *retryablehttp.Client
	writes *retryablehttp.Client
}

// New creates a client for the server at cfg.ServerURL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", cfg.ServerURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", cfg.ServerURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Jar: jar, Timeout: timeout}

	retryMax := cfg.RetryMax
	if retryMax == 0 {
		retryMax = 3
	}

	return &Client{
		baseURL: base,
		config:  cfg,
		jar:     jar,
		reads:   newRetryClient(httpClient, retryMax, cfg.Logger),
		writes:  newRetryClient(httpClient, 0, cfg.Logger),
	}, nil
}

func newRetryClient(httpClient *http.Client, retryMax int, log logger.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient = httpClient
	c.RetryMax = retryMax
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.Logger = leveledLogger{log: log}
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

// ServerURL returns the base URL of the server.
func (c *Client) ServerURL() string {
	return c.baseURL.String()
}

func (c *Client) buildURL(path string, params url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")

	query := ref.Query()
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("api-version", apiVersion)
	u.RawQuery = query.Encode()

	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string) (*retryablehttp.Request, error) {
	target, err := c.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	var rawBody interface{}
	if body != nil {
		payload, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		rawBody = payload
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, rawBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.config.HTTPUsername != "" {
		req.SetBasicAuth(c.config.HTTPUsername, c.config.HTTPPassword)
	}
	if method != http.MethodGet {
		if token := c.csrfToken(); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}

	return req, nil
}

func (c *Client) csrfToken() string {
	for _, cookie := range c.jar.Cookies(c.baseURL) {
		if cookie.Name == csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

// do sends the request and returns the response when its status is 2xx.
// The caller must close the body.
func (c *Client) do(req *retryablehttp.Request) (*http.Response, error) {
	client := c.writes
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		client = c.reads
	}

	c.config.Logger.Debugf("%s %s", req.Method, req.URL.Redacted())
	resp, err := client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newHTTPRequestError(req.Method, req.URL.Path, resp)
	}

	return resp, nil
}

func newHTTPRequestError(method, path string, resp *http.Response) *HTTPRequestError {
	body, _ := io.ReadAll(resp.Body)
	reqErr := &HTTPRequestError{Method: method, URL: path, StatusCode: resp.StatusCode, Body: body}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		reqErr.Message = env.Header.Message
	}
	return reqErr
}

// call sends a request and decodes the envelope body into out, unless out is nil.
func (c *Client) call(req *retryablehttp.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: invalid response: %w", req.Method, req.URL.Path, err)
	}

	if out == nil || len(env.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Body, out); err != nil {
		return fmt.Errorf("%s %s: invalid response body: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// Get sends a GET request and decodes the envelope body into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, params, nil, "")
	if err != nil {
		return err
	}
	return c.call(req, out)
}

// GetRaw returns the undecoded envelope body of a GET request.
func (c *Client) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var body json.RawMessage
	if err := c.Get(ctx, path, nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, nil, bytes.NewReader(data), "application/json")
	if err != nil {
		return err
	}
	return c.call(req, out)
}

// Post sends payload as JSON and decodes the envelope body into out.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

// Put sends payload as JSON and decodes the envelope body into out.
func (c *Client) Put(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, payload, out)
}

// Resources returns every resource readable by the current user, with the
// secret encrypted for them.
func (c *Client) Resources(ctx context.Context, favouriteOnly bool) ([]Resource, error) {
	params := url.Values{"contain[secret]": {"1"}}
	if favouriteOnly {
		params.Set("filter[is-favorite]", "1")
	}

	var resources []Resource
	if err := c.Get(ctx, "/resources.json", params, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.Get(ctx, "/users.json", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// User returns a single user. The id "me" is the logged in user.
func (c *Client) User(ctx context.Context, id string) (User, error) {
	var user User
	err := c.Get(ctx, "/users/"+url.PathEscape(id)+".json", nil, &user)
	return user, err
}

func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.Get(ctx, "/groups.json", url.Values{"contain[user]": {"1"}}, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ResourceSecret returns the secret of a resource encrypted for the current user.
func (c *Client) ResourceSecret(ctx context.Context, resourceID string) (Secret, error) {
	var secret Secret
	err := c.Get(ctx, "/secrets/resource/"+url.PathEscape(resourceID)+".json", nil, &secret)
	return secret, err
}

func (c *Client) ResourcePermissions(ctx context.Context, resourceID string) ([]Permission, error) {
	var permissions []Permission
	if err := c.Get(ctx, "/permissions/resource/"+url.PathEscape(resourceID)+".json", nil, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}

// AddResource creates a resource and returns it as stored by the server.
func (c *Client) AddResource(ctx context.Context, resource Resource) (Resource, error) {
	var created Resource
	err := c.Post(ctx, "/resources.json", resource, &created)
	return created, err
}

func (c *Client) AddTags(ctx context.Context, resourceID string, tags []string) error {
	return c.Post(ctx, "/tags/resource/"+url.PathEscape(resourceID)+".json", tagsRequest{Tags: tags}, nil)
}

func (c *Client) ShareResource(ctx context.Context, resourceID string, share ShareRequest) error {
	return c.Put(ctx, "/share/resource/"+url.PathEscape(resourceID)+".json", share, nil)
}
