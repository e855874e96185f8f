package routing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// httpStatusError is a non-2xx answer from ORS. Body holds the start of the
// response body, which carries the ORS error message.
type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ors: status %d: %s", e.Code, e.Body)
}

// postJSON sends payload to url and returns the successful response. The
// request is rebuilt for every attempt since its body is consumed.
//
// Transient failures (network errors, 429 and 5xx) are retried with
// exponential backoff, bounded by maxAttempts and by ctx.
func (o *ORSRouteProvider) postJSON(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	backoff := o.backoff

	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", o.apiKey)
		req.Header.Set("Accept", "application/json, application/geo+json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.send(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == o.maxAttempts {
			break
		}

		o.logger.Debug("retrying ors request",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}

// send performs one round trip and turns error statuses into
// httpStatusError.
func (o *ORSRouteProvider) send(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		return he.Code == http.StatusTooManyRequests || he.Code >= http.StatusInternalServerError && he.Code != http.StatusNotImplemented
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
