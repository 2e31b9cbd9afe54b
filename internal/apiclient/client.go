// Package apiclient is the single HTTP entry point to the chat backend. Every
// call passes through an ordered list of request interceptors, the transport,
// and an ordered list of response interceptors that normalize failures into
// *Error and successes into the backend envelope.
package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"kbchat/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:5173/api"
	DefaultTimeout = 30 * time.Second
)

type Client struct {
	http      *req.Client
	baseURL   string
	timeout   time.Duration
	headers   map[string]string
	logger    *log.Logger
	creds     Provider
	requests  []RequestInterceptor
	responses []ResponseInterceptor
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestInterceptors replaces the default request chain.
func WithRequestInterceptors(chain ...RequestInterceptor) Option {
	return func(c *Client) {
		c.requests = chain
	}
}

// WithResponseInterceptors replaces the default response chain.
func WithResponseInterceptors(chain ...ResponseInterceptor) Option {
	return func(c *Client) {
		c.responses = chain
	}
}

// New builds a client rooted at baseURL. creds may be nil, in which case no
// Authorization header is ever sent.
func New(baseURL string, creds Provider, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if creds == nil {
		creds = noCredentials{}
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		headers: map[string]string{HeaderContentType: "application/json"},
		logger:  log.Default(),
		creds:   creds,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.requests == nil {
		c.requests = DefaultRequestInterceptors(c.creds, c.logger)
	}
	if c.responses == nil {
		c.responses = DefaultResponseInterceptors(c.creds, c.logger)
	}

	c.http = req.C().
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout)

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get issues a GET for path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string, opts ...CallOption) (*models.Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST with body encoded as JSON, unless a multipart file was
// attached with WithMultipartFile.
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...CallOption) (*models.Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body, opts...)
}

type fileUpload struct {
	field string
	name  string
	size  int64
	open  func() (io.ReadCloser, error)
}

type callConfig struct {
	headers  map[string]string
	file     *fileUpload
	progress func(uploaded, total int64)
}

type CallOption func(*callConfig)

// WithHeader sets a header for one call, overriding the client default.
func WithHeader(key, value string) CallOption {
	return func(cc *callConfig) {
		cc.headers[http.CanonicalHeaderKey(key)] = value
	}
}

// WithMultipartFile sends the call as multipart/form-data with a single file
// part. The JSON content type default is dropped so the transport can set the
// boundary.
func WithMultipartFile(field, name string, size int64, open func() (io.ReadCloser, error)) CallOption {
	return func(cc *callConfig) {
		delete(cc.headers, HeaderContentType)
		cc.file = &fileUpload{field: field, name: name, size: size, open: open}
	}
}

// WithUploadProgress receives byte counts as the multipart body is written.
// It runs on the transport goroutine.
func WithUploadProgress(fn func(uploaded, total int64)) CallOption {
	return func(cc *callConfig) {
		cc.progress = fn
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, opts ...CallOption) (*models.Envelope, error) {
	cc := &callConfig{headers: make(map[string]string, len(c.headers))}
	for k, v := range c.headers {
		cc.headers[k] = v
	}
	for _, opt := range opts {
		opt(cc)
	}

	r := c.http.R().SetContext(ctx)

	if cc.file != nil {
		r.SetFileUpload(req.FileUpload{
			ParamName:      cc.file.field,
			FileName:       cc.file.name,
			FileSize:       cc.file.size,
			GetFileContent: cc.file.open,
		})
		if cc.progress != nil {
			progress := cc.progress
			r.SetUploadCallbackWithInterval(func(info req.UploadInfo) {
				progress(info.UploadedSize, info.FileSize)
			}, 0)
		}
	} else if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.logger.Printf("✗ %s %s: failed to encode body: %v", method, path, err)
			return nil, &Error{Kind: KindRequest, Message: MsgNetworkError}
		}
		r.SetBodyBytes(data)
	}

	for k, v := range cc.headers {
		r.SetHeader(k, v)
	}

	call := &Call{Method: method, Path: path, Request: r}
	for _, intercept := range c.requests {
		if err := intercept(ctx, call); err != nil {
			c.logger.Printf("✗ %s %s: request rejected: %v", method, path, err)
			return nil, &Error{Kind: KindRequest, Message: MsgNetworkError}
		}
	}

	resp, err := r.Send(method, path)

	out := &Outcome{Call: call, Response: resp, Err: err}
	for _, intercept := range c.responses {
		if ierr := intercept(ctx, out); ierr != nil {
			apiErr := asError(ierr, KindBusiness)
			if out.Err != nil {
				c.logger.Printf("✗ %s %s: %s (%v)", method, path, apiErr.Message, out.Err)
			} else {
				c.logger.Printf("✗ %s %s: %s", method, path, apiErr.Message)
			}
			return nil, apiErr
		}
	}

	if out.Envelope == nil {
		c.logger.Printf("✗ %s %s: response chain produced no envelope", method, path)
		return nil, &Error{Kind: KindBusiness, Status: out.StatusCode(), Message: MsgRequestFailed}
	}
	return out.Envelope, nil
}
