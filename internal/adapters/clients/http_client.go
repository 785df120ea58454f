// Package clients implements the outbound API clients on top of fasthttp. Every call runs in a
// client span and propagates the trace context to the callee.
package clients

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/mdp_service/internal/adapters/clients"

// DefaultTimeout applies when a client is built without one.
const DefaultTimeout = 10 * time.Second

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded with status %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match apperrors.ErrNotFound on a 404.
func (e *APIError) Unwrap() error {
	if e.StatusCode == fasthttp.StatusNotFound {
		return apperrors.ErrNotFound
	}
	return nil
}

// NewFastHTTPClient creates the connection pool shared by all API clients.
func NewFastHTTPClient(timeout time.Duration) *fasthttp.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &fasthttp.Client{
		Name:                     "mdp-service",
		ReadTimeout:              timeout,
		WriteTimeout:             timeout,
		MaxIdleConnDuration:      90 * time.Second,
		NoDefaultUserAgentHeader: true,
	}
}

type httpClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	tracer  trace.Tracer
}

func newHTTPClient(client *fasthttp.Client, baseURL string, timeout time.Duration) httpClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		tracer:  otel.Tracer(tracerName),
	}
}

// get issues a GET and returns the body of a 2xx response together with its status code.
func (c *httpClient) get(ctx context.Context, operation, path string, query url.Values) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	ctx, span := c.tracer.Start(ctx, operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{header: &req.Header})

	span.SetAttributes(
		attribute.String("http.request.method", fasthttp.MethodGet),
		attribute.String("url.full", uri),
	)

	if err := c.client.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, 0, fmt.Errorf("%s request failed: %w", operation, err)
	}

	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	body := append([]byte(nil), resp.Body()...)
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: status, Body: string(body)}
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, status, apiErr
	}
	return body, status, nil
}

// deadline is the earlier of the client timeout and the context deadline.
func (c *httpClient) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

// memberPath builds the per-member resource path shared by the downstream APIs.
func memberPath(businessGroup, referenceNumber string) string {
	return "/bgroups/" + url.PathEscape(businessGroup) + "/members/" + url.PathEscape(referenceNumber)
}

// isEmptyBody treats a missing body, a JSON null and an empty object alike.
func isEmptyBody(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return trimmed == "" || trimmed == "null" || trimmed == "{}"
}

// headerCarrier adapts fasthttp request headers to the otel propagation carrier.
type headerCarrier struct {
	header *fasthttp.RequestHeader
}

func (c headerCarrier) Get(key string) string {
	return string(c.header.Peek(key))
}

func (c headerCarrier) Set(key, value string) {
	c.header.Set(key, value)
}

func (c headerCarrier) Keys() []string {
	var keys []string
	c.header.VisitAll(func(key, _ []byte) {
		keys = append(keys, string(key))
	})
	return keys
}
