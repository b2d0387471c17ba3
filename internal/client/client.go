// Package client performs dynamic gRPC calls against the Google Ads API
// using runtime method descriptors and the descriptor-bound value codec.
// No generated per-service code is involved.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"

	"github.com/searchads/searchads/internal/codec"
	apperrors "github.com/searchads/searchads/internal/errors"
	"github.com/searchads/searchads/internal/value"
)

// Options configure the connection and the metadata attached to every
// call made through it.
type Options struct {
	// Endpoint is the API host. A bare host is assumed to be https.
	Endpoint string
	// DeveloperToken is sent as the developer-token header.
	DeveloperToken string
	// LoginCustomerID, when set, is sent as the login-customer-id
	// routing header identifying the acting account.
	LoginCustomerID string
	// AccessToken is sent as a Bearer authorization header.
	AccessToken string
	// Timeout, when positive, bounds each whole call including stream
	// consumption. Expiry surfaces as a transport error; nothing is
	// retried.
	Timeout time.Duration
}

// Client owns a transport connection and drives unary and
// server-streaming calls through per-method codecs. The connection is
// safely shareable across concurrent invocations.
type Client struct {
	conn            *grpc.ClientConn
	logger          *slog.Logger
	developerToken  string
	loginCustomerID string
	accessToken     string
	timeout         time.Duration
}

// Connect normalizes the endpoint and establishes a long-lived transport
// connection.
func Connect(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	target, plaintext, err := normalizeEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	kaParams := keepalive.ClientParameters{
		Time:    30 * time.Second,
		Timeout: 10 * time.Second,
	}
	dialOpts := []grpc.DialOption{
		grpc.WithKeepaliveParams(kaParams),
	}
	if plaintext {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		logger.Warn("using insecure plaintext connection", slog.String("target", target))
	} else {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(nil)))
	}

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", target, err)
	}

	logger.Debug("transport connection established",
		slog.String("target", target),
		slog.Bool("tls", !plaintext),
	)

	return &Client{
		conn:            conn,
		logger:          logger,
		developerToken:  opts.DeveloperToken,
		loginCustomerID: opts.LoginCustomerID,
		accessToken:     strings.TrimSpace(opts.AccessToken),
		timeout:         opts.Timeout,
	}, nil
}

// Close releases the transport connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Unary performs one request/response exchange on a unary method. The
// returned value is the decoded response; RPC-layer failures carry the
// remote status code and message.
func (c *Client) Unary(ctx context.Context, method *desc.MethodDescriptor, req value.Value) (value.Value, error) {
	if err := rejectClientStreaming(method); err != nil {
		return value.Value{}, err
	}

	methodName := method.GetFullyQualifiedName()
	cdc := codec.FromMethod(method)
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	c.logger.Debug("invoking unary RPC", slog.String("method", methodName))

	var resp value.Value
	if err := c.conn.Invoke(ctx, methodPath(method), &req, &resp, grpc.ForceCodec(cdc)); err != nil {
		c.logger.Error("RPC invocation failed",
			slog.String("method", methodName),
			slog.Any("error", err),
		)
		return value.Value{}, err
	}

	c.logger.Debug("unary RPC completed", slog.String("method", methodName))
	return resp, nil
}

// callContext attaches the request metadata and the per-call timeout.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	pairs := []string{
		"developer-token", c.developerToken,
		"authorization", "Bearer " + c.accessToken,
	}
	if c.loginCustomerID != "" {
		pairs = append(pairs, "login-customer-id", c.loginCustomerID)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, pairs...)

	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

func rejectClientStreaming(method *desc.MethodDescriptor) error {
	if method.IsClientStreaming() {
		return fmt.Errorf("%s: %w", method.GetFullyQualifiedName(), apperrors.ErrClientStreaming)
	}
	return nil
}

func methodPath(method *desc.MethodDescriptor) string {
	return "/" + method.GetService().GetFullyQualifiedName() + "/" + method.GetName()
}

// normalizeEndpoint turns an endpoint string into a gRPC dial target,
// assuming https when no scheme is given.
func normalizeEndpoint(endpoint string) (target string, plaintext bool, err error) {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		return "", false, fmt.Errorf("endpoint is empty")
	}
	if !strings.Contains(ep, "://") {
		ep = "https://" + ep
	}

	u, err := url.Parse(ep)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "https":
	case "http":
		plaintext = true
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("endpoint %q has no host", endpoint)
	}

	target = u.Host
	if u.Port() == "" {
		if plaintext {
			target += ":80"
		} else {
			target += ":443"
		}
	}
	return target, plaintext, nil
}
