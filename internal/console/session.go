package console

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// SessionOptions configures the headless Chrome tab a Console operates on.
type SessionOptions struct {
	// ConsoleURL is the documentation page to open.
	ConsoleURL string
	// Headless defaults to true in config; turn it off to watch the clicks.
	Headless bool
	// Timeout bounds the whole session when positive.
	Timeout time.Duration
}

// NewSession launches Chrome, opens the documentation console and waits for
// the endpoint list to render. The returned context is the page handle passed
// to InvokeEndpoint and Authorize; the cancel func tears the browser down.
func NewSession(parent context.Context, opts SessionOptions) (context.Context, context.CancelFunc, error) {
	if opts.ConsoleURL == "" {
		return nil, nil, fmt.Errorf("console URL is required")
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, execOpts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	cancelTimeout := context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		ctx, cancelTimeout = context.WithTimeout(ctx, opts.Timeout)
	}
	cancel := func() {
		cancelTimeout()
		cancelCtx()
		cancelAlloc()
	}

	err := chromedp.Run(ctx,
		network.Enable(),
		chromedp.Navigate(opts.ConsoleURL),
		chromedp.WaitVisible(`.swagger-ui .opblock`, chromedp.ByQuery),
	)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("could not open documentation console: %w", err)
	}

	return ctx, cancel, nil
}
