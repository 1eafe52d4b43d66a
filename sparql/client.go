// Package sparql implements the SPARQL 1.1 protocol client used to talk to
// the remote triplestore: select and construct queries, updates, and bulk
// graph insertion through the graph store protocol.
package sparql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/c360studio/graphsync/rdf"
)

// ErrRemoteUnavailable wraps every transport or protocol failure talking to
// the triplestore. There is no built-in retry; callers abort the session.
var ErrRemoteUnavailable = errors.New("triplestore unavailable")

// Credentials holds basic-auth credentials for the endpoint. Zero value
// disables authentication.
type Credentials struct {
	Username string
	Password string
}

// Options configures a Client.
type Options struct {
	// Endpoint is the base URL of the SPARQL service. Query, update and
	// graph store requests all go to this URL unless overridden.
	Endpoint string

	// UpdateEndpoint overrides the URL for update requests. Empty means
	// the base endpoint.
	UpdateEndpoint string

	// GraphStoreEndpoint overrides the URL for graph store protocol
	// requests. Empty means the base endpoint.
	GraphStoreEndpoint string

	// Credentials are the basic-auth credentials, optional.
	Credentials Credentials

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger receives request-level debug logging. Nil means slog.Default.
	Logger *slog.Logger
}

// DefaultTimeout bounds requests when no timeout is configured.
const DefaultTimeout = 20 * time.Second

// Client executes SPARQL protocol operations over HTTP(S).
type Client struct {
	endpoint      string
	updateURL     string
	graphStoreURL string
	creds         Credentials
	http          *http.Client
	logger        *slog.Logger
}

// NewClient creates a client for the given endpoint.
func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("sparql: endpoint is required")
	}
	if _, err := url.Parse(opts.Endpoint); err != nil {
		return nil, fmt.Errorf("sparql: invalid endpoint: %w", err)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	updateURL := opts.UpdateEndpoint
	if updateURL == "" {
		updateURL = opts.Endpoint
	}
	graphStoreURL := opts.GraphStoreEndpoint
	if graphStoreURL == "" {
		graphStoreURL = opts.Endpoint
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:      opts.Endpoint,
		updateURL:     updateURL,
		graphStoreURL: graphStoreURL,
		creds:         opts.Credentials,
		http:          &http.Client{Timeout: timeout},
		logger:        logger,
	}, nil
}

// Select executes a SELECT query and returns the typed result rows.
func (c *Client) Select(ctx context.Context, query string) (*Results, error) {
	body, err := c.post(ctx, c.endpoint, "application/sparql-query", "application/sparql-results+json", query)
	if err != nil {
		return nil, err
	}
	results, err := parseResults(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode select results: %v", ErrRemoteUnavailable, err)
	}
	return results, nil
}

// Construct executes a CONSTRUCT query and returns the resulting graph.
// The response is requested as Turtle and parsed with the rdf package.
func (c *Client) Construct(ctx context.Context, query string) (*rdf.Graph, error) {
	body, err := c.post(ctx, c.endpoint, "application/sparql-query", "text/turtle", query)
	if err != nil {
		return nil, err
	}
	g, err := rdf.ParseTurtle(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode construct results: %v", ErrRemoteUnavailable, err)
	}
	return g, nil
}

// Update executes a SPARQL update (INSERT, DELETE, DROP, CREATE, ADD).
func (c *Client) Update(ctx context.Context, update string) error {
	_, err := c.post(ctx, c.updateURL, "application/sparql-update", "", update)
	return err
}

// InsertGraph stores serialized document content into the named graph via
// the graph store protocol. Existing content in the graph is preserved;
// callers drop the graph first when replacing it.
func (c *Client) InsertGraph(ctx context.Context, graphURI string, data []byte, contentType string) error {
	target := c.graphStoreURL
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	target += sep + "graph=" + url.QueryEscape(graphURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", contentType)
	c.authorize(req)

	c.logger.Debug("graph store insert", slog.String("graph", graphURI), slog.Int("bytes", len(data)))
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: graph store insert %s: status %d", ErrRemoteUnavailable, graphURI, resp.StatusCode)
	}
	return nil
}

// post sends a request body and returns the response bytes. Every failure,
// including non-2xx statuses, is wrapped in ErrRemoteUnavailable.
func (c *Client) post(ctx context.Context, target, contentType, accept, body string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", contentType)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRemoteUnavailable, err)
	}
	c.logger.Debug("sparql request",
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRemoteUnavailable, resp.StatusCode, truncate(string(data), 200))
	}
	return data, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.creds.Username != "" || c.creds.Password != "" {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
