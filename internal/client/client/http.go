package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/client/models"
	"github.com/dmitrijs2005/ubadesk/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// maxResponseBody bounds how much of a response is read into memory.
const maxResponseBody = 1 << 20

// authTransport decorates every request with the current bearer token
// (when one is held) and a fresh request id.
type authTransport struct {
	base  http.RoundTripper
	creds *Credentials
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	if tok := t.creds.Token(); tok != "" {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	return t.base.RoundTrip(r)
}

// HTTPClient talks to the auth API over HTTP/JSON. When a health address is
// configured, Ping uses the gRPC health protocol instead of GET /api/health.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	conn    *grpc.ClientConn
	health  healthpb.HealthClient
}

// NewHTTPClient builds a client for the API at baseURL. Credentials are
// read on every request, so token changes apply to the next call.
func NewHTTPClient(baseURL, healthAddr string, timeout time.Duration, creds *Credentials) (*HTTPClient, error) {
	if creds == nil {
		creds = NewCredentials()
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{base: http.DefaultTransport, creds: creds},
		},
	}

	if healthAddr != "" {
		conn, err := grpc.NewClient(healthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("health client %s: %w", healthAddr, err)
		}
		c.conn = conn
		c.health = healthpb.NewHealthClient(conn)
	}

	return c, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/register", email, password)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/login", email, password)
}

func (c *HTTPClient) authenticate(ctx context.Context, path, email, password string) (*AuthResult, error) {
	var res AuthResult
	req := credentialsRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, common.AuthPathPrefix+path, req, &res); err != nil {
		return nil, err
	}
	if res.Token == "" || res.User == nil {
		return nil, fmt.Errorf("%w: incomplete auth response", ErrServer)
	}
	return &res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, common.AuthPathPrefix+"/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}
