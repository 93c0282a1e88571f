package console

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

type tokenEnvelope struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// extractToken reads the nested data.token field from a JSON response body.
// A body that parses but carries no token yields an empty string and no error.
func extractToken(body []byte) (string, error) {
	var env tokenEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", err
	}
	return env.Data.Token, nil
}

// tokenCapture is the single-assignment slot the response observer resolves
// into. One capture lives for exactly one invocation.
type tokenCapture struct {
	expect bool

	once  sync.Once
	done  chan struct{}
	token string
}

func newTokenCapture(expect bool) *tokenCapture {
	return &tokenCapture{expect: expect, done: make(chan struct{})}
}

func (tc *tokenCapture) resolve(token string) {
	tc.once.Do(func() {
		tc.token = token
		close(tc.done)
	})
}

// observe inspects one network response. Extraction failures are logged and
// swallowed: an absent token is a valid, expected outcome.
func (tc *tokenCapture) observe(status int64, body []byte, log zerolog.Logger) {
	if !tc.expect {
		return
	}
	if status != http.StatusOK {
		return
	}
	token, err := extractToken(body)
	if err != nil {
		log.Debug().Err(err).Msg("response body is not token-shaped")
		return
	}
	if token == "" {
		return
	}
	tc.resolve(token)
}

// wait blocks until the observer resolved a token, the grace period elapses or
// ctx is cancelled. Timing out is not an error: it simply means no token.
func (tc *tokenCapture) wait(ctx context.Context, grace time.Duration) string {
	if !tc.expect {
		return ""
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-tc.done:
		return tc.token
	case <-timer.C:
		return ""
	case <-ctx.Done():
		return ""
	}
}

// attachObserver registers a CDP network listener on the tab for the lifetime
// of one invocation. Body fetches run off the event goroutine; chromedp does
// not allow blocking protocol calls inside ListenTarget handlers.
func attachObserver(ctx context.Context, tc *tokenCapture, log zerolog.Logger) {
	target := chromedp.FromContext(ctx).Target
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || !tc.expect {
			return
		}
		if resp.Type != network.ResourceTypeXHR && resp.Type != network.ResourceTypeFetch {
			return
		}
		status := resp.Response.Status
		requestID := resp.RequestID
		go func() {
			body, err := network.GetResponseBody(requestID).Do(cdp.WithExecutor(ctx, target))
			if err != nil {
				log.Debug().Err(err).Str("request_id", string(requestID)).Msg("could not fetch response body")
				return
			}
			tc.observe(status, body, log)
		}()
	})
}
