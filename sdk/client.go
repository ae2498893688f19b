// Package sdk is the runtime used by generated API packages. Generated entry
// points encode their parameters, hand them to a Dispatcher under the
// function's qualified name ("module.function"), and decode the result.
//
// How requests reach the engine is up to the Dispatcher implementation.
package sdk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carlmjohnson/versioninfo"
	"github.com/goccy/go-json"
)

// Request is a single function call handed to a Dispatcher.
type Request struct {
	// qualified name, "module.function"
	Function string
	// JSON encoded parameters; nil when the function takes none
	Params []byte
	// set for calls that need the caller to answer engine callbacks
	AppObject AppObject
	UserAgent string
}

type Dispatcher interface {
	// Dispatch performs the call and returns the JSON encoded result.
	// Engine-side failures should be returned as *Error.
	Dispatch(ctx context.Context, req *Request) ([]byte, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, req *Request) ([]byte, error)

func (f DispatcherFunc) Dispatch(ctx context.Context, req *Request) ([]byte, error) {
	return f(ctx, req)
}

// AppObject answers callback requests the engine makes while a call is in
// flight, e.g. signing with keys that never leave the application.
type AppObject interface {
	HandleRequest(ctx context.Context, request []byte) ([]byte, error)
}

// Client is the call-context handle every generated entry point takes.
type Client struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	UserAgent  string
}

type ClientOption func(*Client)

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.UserAgent = ua
	}
}

func NewClient(d Dispatcher, opts ...ClientOption) *Client {
	c := &Client{
		dispatcher: d,
		logger:     slog.Default().With("system", "sdk"),
		UserAgent:  "apigen/" + versioninfo.Short(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Error is a structured failure reported by the engine.
type Error struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data,omitempty"`
	Function string          `json:"-"`
}

func (e *Error) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: error %d: %s", e.Function, e.Code, e.Message)
}

func (c *Client) dispatch(ctx context.Context, function string, params any, app AppObject) ([]byte, error) {
	if c == nil || c.dispatcher == nil {
		return nil, fmt.Errorf("%s: client has no dispatcher", function)
	}

	req := &Request{
		Function:  function,
		AppObject: app,
		UserAgent: c.UserAgent,
	}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encoding params for %s: %w", function, err)
		}
		req.Params = b
	}

	c.logger.Debug("dispatching call", "function", function, "params_bytes", len(req.Params), "app_object", app != nil)
	out, err := c.dispatcher.Dispatch(ctx, req)
	if err != nil {
		if e, ok := err.(*Error); ok && e.Function == "" {
			e.Function = function
		}
		return nil, err
	}
	return out, nil
}

func decodeResult[R any](function string, b []byte) (*R, error) {
	var out R
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding result of %s: %w", function, err)
	}
	return &out, nil
}

// Call dispatches function and decodes its result into R.
func Call[R any](ctx context.Context, c *Client, function string, params any) (*R, error) {
	b, err := c.dispatch(ctx, function, params, nil)
	if err != nil {
		return nil, err
	}
	return decodeResult[R](function, b)
}

// CallVoid dispatches a function that has no result.
func CallVoid(ctx context.Context, c *Client, function string, params any) error {
	_, err := c.dispatch(ctx, function, params, nil)
	return err
}

// CallAppObject is Call for functions that take an application callback
// object.
func CallAppObject[R any](ctx context.Context, c *Client, function string, params any, app AppObject) (*R, error) {
	b, err := c.dispatch(ctx, function, params, app)
	if err != nil {
		return nil, err
	}
	return decodeResult[R](function, b)
}

func CallAppObjectVoid(ctx context.Context, c *Client, function string, params any, app AppObject) error {
	_, err := c.dispatch(ctx, function, params, app)
	return err
}

// CallVariant is Call for functions whose result is a variant interface; the
// generated decode helper for that interface picks the concrete type.
func CallVariant[R any](ctx context.Context, c *Client, function string, params any, decode func([]byte) (R, error)) (R, error) {
	var zero R
	b, err := c.dispatch(ctx, function, params, nil)
	if err != nil {
		return zero, err
	}
	out, err := decode(b)
	if err != nil {
		return zero, fmt.Errorf("decoding result of %s: %w", function, err)
	}
	return out, nil
}

func CallAppObjectVariant[R any](ctx context.Context, c *Client, function string, params any, app AppObject, decode func([]byte) (R, error)) (R, error) {
	var zero R
	b, err := c.dispatch(ctx, function, params, app)
	if err != nil {
		return zero, err
	}
	out, err := decode(b)
	if err != nil {
		return zero, fmt.Errorf("decoding result of %s: %w", function, err)
	}
	return out, nil
}
