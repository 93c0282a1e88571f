// Package console drives a web-rendered API documentation console (a Swagger
// "try it out" UI) through a headless browser: it expands endpoint panels,
// fills request bodies, executes live calls and harvests bearer tokens from
// the observed responses.
package console

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	// delay after writing the request body, the editor re-renders on input
	defaultSettleDelay = 500 * time.Millisecond
	// grace period for the network round trip after Execute is clicked
	defaultResponseWait = 8 * time.Second
)

// Console performs interactions against one documentation page. It holds no
// page state itself; the tab is carried in the context passed to each call,
// and exclusive, serialized use of that tab by one caller is assumed.
type Console struct {
	drv          pageDriver
	listen       func(ctx context.Context, tc *tokenCapture)
	log          zerolog.Logger
	settleDelay  time.Duration
	responseWait time.Duration
}

func New(log zerolog.Logger) *Console {
	c := &Console{
		drv:          chromedpDriver{},
		log:          log,
		settleDelay:  defaultSettleDelay,
		responseWait: defaultResponseWait,
	}
	c.listen = func(ctx context.Context, tc *tokenCapture) {
		attachObserver(ctx, tc, c.log)
	}
	return c
}
