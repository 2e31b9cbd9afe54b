package apiclient

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"

	"kbchat/internal/models"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
)

// Call describes one outgoing request while it passes through the request
// interceptors. Interceptors mutate Request in place.
type Call struct {
	Method    string
	Path      string
	RequestID string
	Request   *req.Request
}

// Outcome is what the response interceptors see: the raw response (nil or
// without an HTTP response when the transport failed), the transport error,
// and the envelope once decoded.
type Outcome struct {
	Call     *Call
	Response *req.Response
	Err      error
	Envelope *models.Envelope
}

func (o *Outcome) HasResponse() bool {
	return o.Response != nil && o.Response.Response != nil
}

func (o *Outcome) StatusCode() int {
	if !o.HasResponse() {
		return 0
	}
	return o.Response.StatusCode
}

func (o *Outcome) Body() []byte {
	if !o.HasResponse() {
		return nil
	}
	return o.Response.Bytes()
}

// RequestInterceptor runs before transmission. Returning an error rejects the
// call without sending anything.
type RequestInterceptor func(ctx context.Context, call *Call) error

// ResponseInterceptor runs after the transport returns. Returning an error
// short-circuits the chain and fails the call.
type ResponseInterceptor func(ctx context.Context, out *Outcome) error

// Provider supplies the bearer credential and drops it when the backend
// reports it as invalid.
type Provider interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type noCredentials struct{}

func (noCredentials) Token(ctx context.Context) (string, error) { return "", nil }
func (noCredentials) Clear(ctx context.Context) error           { return nil }

// DefaultRequestInterceptors: request id, bearer auth, logging.
func DefaultRequestInterceptors(creds Provider, logger *log.Logger) []RequestInterceptor {
	return []RequestInterceptor{
		RequestID(),
		BearerAuth(creds),
		LogRequest(logger),
	}
}

// DefaultResponseInterceptors: logging, transport failure, HTTP status, envelope.
func DefaultResponseInterceptors(creds Provider, logger *log.Logger) []ResponseInterceptor {
	return []ResponseInterceptor{
		LogResponse(logger),
		NormalizeTransport(),
		NormalizeStatus(creds, logger),
		UnwrapEnvelope(),
	}
}

// RequestID tags the call with a fresh X-Request-ID unless one was set per call.
func RequestID() RequestInterceptor {
	return func(ctx context.Context, call *Call) error {
		id := call.Request.Headers.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			call.Request.SetHeader(HeaderRequestID, id)
		}
		call.RequestID = id
		return nil
	}
}

// BearerAuth sets "Authorization: Bearer <token>" when the provider has a
// token. No token means no header.
func BearerAuth(creds Provider) RequestInterceptor {
	return func(ctx context.Context, call *Call) error {
		token, err := creds.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			call.Request.SetHeader(HeaderAuthorization, "Bearer "+token)
		}
		return nil
	}
}

func LogRequest(logger *log.Logger) RequestInterceptor {
	return func(ctx context.Context, call *Call) error {
		logger.Printf("→ %s %s [%s]", call.Method, call.Path, call.RequestID)
		return nil
	}
}

func LogResponse(logger *log.Logger) ResponseInterceptor {
	return func(ctx context.Context, out *Outcome) error {
		if out.HasResponse() {
			logger.Printf("← %d %s %s [%s]", out.StatusCode(), out.Call.Method, out.Call.Path, out.Call.RequestID)
		}
		return nil
	}
}

// NormalizeTransport fails calls that never got a complete response: no
// response at all, or a body cut off by the timeout or a dropped connection.
func NormalizeTransport() ResponseInterceptor {
	return func(ctx context.Context, out *Outcome) error {
		if !out.HasResponse() {
			return &Error{Kind: KindTransport, Message: MsgNetworkTimeout}
		}
		err := out.Err
		if err == nil {
			_, err = out.Response.ToBytes()
		}
		if err != nil {
			return &Error{Kind: KindTransport, Status: out.StatusCode(), Message: MsgNetworkTimeout}
		}
		return nil
	}
}

// NormalizeStatus maps non-2xx statuses to display messages. A 401 also
// clears the stored credential.
func NormalizeStatus(creds Provider, logger *log.Logger) ResponseInterceptor {
	return func(ctx context.Context, out *Outcome) error {
		status := out.StatusCode()
		if status >= 200 && status < 300 {
			return nil
		}

		if status == 401 {
			if err := creds.Clear(ctx); err != nil {
				logger.Printf("✗ failed to clear credential after 401: %v", err)
			}
		}

		return &Error{Kind: KindStatus, Status: status, Message: StatusMessage(status, out.Body())}
	}
}

// UnwrapEnvelope decodes the body and accepts it only when its code is a
// success sentinel. The whole envelope is kept, not just its data.
func UnwrapEnvelope() ResponseInterceptor {
	return func(ctx context.Context, out *Outcome) error {
		var body struct {
			Code    *int            `json:"code"`
			Message string          `json:"message"`
			Data    json.RawMessage `json:"data"`
		}
		status := out.StatusCode()

		if err := json.Unmarshal(out.Body(), &body); err != nil {
			return &Error{Kind: KindBusiness, Status: status, Message: MsgRequestFailed}
		}
		if body.Code == nil {
			return &Error{Kind: KindBusiness, Status: status, Message: failureMessage(body.Message)}
		}

		env := &models.Envelope{
			Code:    *body.Code,
			Message: body.Message,
			Data:    body.Data,
		}
		if !env.Succeeded() {
			return &Error{Kind: KindBusiness, Status: status, Message: failureMessage(env.Message)}
		}
		out.Envelope = env
		return nil
	}
}

func failureMessage(msg string) string {
	if msg == "" {
		return MsgRequestFailed
	}
	return msg
}
