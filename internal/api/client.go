package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

var (
	ErrTransport         = errors.New("transport error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrRowConstruction   = errors.New("row construction failed")
)

func newHTTPClient(timeout time.Duration) *fasthttp.Client {
	return &fasthttp.Client{
		MaxConnsPerHost:     16,
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxIdleConnDuration: 1 * time.Minute,
	}
}

// maxRedirects bounds how many Location hops a GET follows.
const maxRedirects = 5

// do executes req bounded by timeout or the context deadline, whichever is
// sooner. GET requests follow up to maxRedirects redirects within that same
// deadline. Network failures and non-2xx final statuses are reported as
// ErrTransport.
func do(ctx context.Context, client *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	for hops := 0; ; hops++ {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("%w: %w", ErrTransport, err)
		}
		if !req.Header.IsGet() || !fasthttp.StatusCodeIsRedirect(resp.StatusCode()) {
			break
		}
		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			break
		}
		if hops == maxRedirects {
			return fmt.Errorf("%w: too many redirects", ErrTransport)
		}
		// relative locations resolve against the current URI
		uri := req.URI()
		uri.UpdateBytes(location)
		req.SetRequestURI(uri.String())
	}

	if status := resp.StatusCode(); status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return fmt.Errorf("%w: API error: %d", ErrTransport, status)
	}
	return nil
}
