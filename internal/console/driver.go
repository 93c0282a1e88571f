package console

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// pageDriver is the small surface the invoker and authorizer need from a live
// browser tab. Production use goes through chromedp; tests substitute a
// recording fake.
type pageDriver interface {
	WaitVisible(ctx context.Context, sel string) error
	Click(ctx context.Context, sel string) error
	Clear(ctx context.Context, sel string) error
	SetValue(ctx context.Context, sel, value string) error
	AttributeValue(ctx context.Context, sel, name string) (string, bool, error)
	Sleep(ctx context.Context, d time.Duration) error
}

type chromedpDriver struct{}

func (chromedpDriver) WaitVisible(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func (chromedpDriver) Click(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
}

func (chromedpDriver) Clear(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.Clear(sel, chromedp.ByQuery))
}

func (chromedpDriver) SetValue(ctx context.Context, sel, value string) error {
	return chromedp.Run(ctx, chromedp.SetValue(sel, value, chromedp.ByQuery))
}

func (chromedpDriver) AttributeValue(ctx context.Context, sel, name string) (string, bool, error) {
	var value string
	var ok bool
	err := chromedp.Run(ctx, chromedp.AttributeValue(sel, name, &value, &ok, chromedp.ByQuery))
	return value, ok, err
}

func (chromedpDriver) Sleep(ctx context.Context, d time.Duration) error {
	return chromedp.Run(ctx, chromedp.Sleep(d))
}
