package clickhouse

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/relloyd/housepipe/clickhouse Store

// Store is the subset of the ClickHouse HTTP interface used by the pipeline.
type Store interface {
	// Version returns the server version string.
	Version(ctx context.Context) (string, error)
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, sql string) error
	// Query runs sql and returns the raw response body.
	Query(ctx context.Context, sql string) (string, error)
	// Insert sends body as the data for insertSQL, e.g. INSERT INTO t FORMAT TabSeparated.
	Insert(ctx context.Context, insertSQL string, body io.Reader) error
}

// StatusError is returned when the server responds with anything other than 200 OK.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ClickHouse returned HTTP status %v: %v", e.StatusCode, strings.TrimSpace(e.Body))
}

// Client talks to the ClickHouse HTTP endpoint, usually on port 8123.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	user       string
	password   string
	database   string
}

type Option func(c *Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithCredentials sends user and password in the X-ClickHouse-User and X-ClickHouse-Key headers.
func WithCredentials(user string, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithDatabase sets the default database for every request.
func WithDatabase(db string) Option {
	return func(c *Client) {
		c.database = db
	}
}

// NewClient parses baseURL, e.g. http://clickhouse:8123/, and applies opts.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ClickHouse URL %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid ClickHouse URL %q: scheme must be http or https", baseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	c := &Client{baseURL: u, httpClient: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// URL returns the endpoint without credentials.
func (c *Client) URL() string {
	u := *c.baseURL
	u.User = nil
	return u.String()
}

func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "SELECT version()", nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(body), nil
}

func (c *Client) Exec(ctx context.Context, sql string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "", strings.NewReader(sql))
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

func (c *Client) Query(ctx context.Context, sql string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "", strings.NewReader(sql))
	if err != nil {
		return "", err
	}
	return c.do(req)
}

func (c *Client) Insert(ctx context.Context, insertSQL string, body io.Reader) error {
	req, err := c.newRequest(ctx, http.MethodPost, insertSQL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	_, err = c.do(req)
	return err
}

// newRequest builds a request against the base URL with query as the query parameter when it is not empty.
func (c *Client) newRequest(ctx context.Context, method string, query string, body io.Reader) (*http.Request, error) {
	u := *c.baseURL
	q := u.Query()
	if query != "" {
		q.Set("query", query)
	}
	if c.database != "" {
		q.Set("database", c.database)
	}
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "error creating ClickHouse request")
	}
	if c.user != "" {
		req.Header.Set("X-ClickHouse-User", c.user)
		req.Header.Set("X-ClickHouse-Key", c.password)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "error sending request to ClickHouse")
	}
	defer resp.Body.Close()
	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "error reading ClickHouse response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return string(b), nil
}
