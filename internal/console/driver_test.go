package console

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type op struct {
	kind  string
	sel   string
	value string
}

// fakeDriver records every page interaction in order. attrs maps
// "sel\x00name" to attribute values; failOn maps "kind:sel" to injected
// errors; onClick fires after a successful click, which lets tests simulate
// the network response triggered by the Execute control.
type fakeDriver struct {
	ops     []op
	attrs   map[string]string
	failOn  map[string]error
	onClick func(sel string)
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		attrs:  map[string]string{},
		failOn: map[string]error{},
	}
}

func (d *fakeDriver) record(kind, sel, value string) error {
	if err, ok := d.failOn[kind+":"+sel]; ok {
		return err
	}
	d.ops = append(d.ops, op{kind: kind, sel: sel, value: value})
	return nil
}

func (d *fakeDriver) WaitVisible(_ context.Context, sel string) error {
	return d.record("wait", sel, "")
}

func (d *fakeDriver) Click(_ context.Context, sel string) error {
	if err := d.record("click", sel, ""); err != nil {
		return err
	}
	if d.onClick != nil {
		d.onClick(sel)
	}
	return nil
}

func (d *fakeDriver) Clear(_ context.Context, sel string) error {
	return d.record("clear", sel, "")
}

func (d *fakeDriver) SetValue(_ context.Context, sel, value string) error {
	return d.record("set", sel, value)
}

func (d *fakeDriver) AttributeValue(_ context.Context, sel, name string) (string, bool, error) {
	if err, ok := d.failOn["attr:"+sel]; ok {
		return "", false, err
	}
	d.ops = append(d.ops, op{kind: "attr", sel: sel, value: name})
	v, ok := d.attrs[sel+"\x00"+name]
	return v, ok, nil
}

func (d *fakeDriver) Sleep(_ context.Context, _ time.Duration) error {
	return d.record("sleep", "", "")
}

func (d *fakeDriver) kinds() []string {
	out := make([]string, 0, len(d.ops))
	for _, o := range d.ops {
		out = append(out, o.kind)
	}
	return out
}

func newTestConsole(drv pageDriver, listen func(context.Context, *tokenCapture)) *Console {
	c := &Console{
		drv:          drv,
		log:          zerolog.Nop(),
		settleDelay:  time.Millisecond,
		responseWait: 100 * time.Millisecond,
	}
	if listen == nil {
		listen = func(context.Context, *tokenCapture) {}
	}
	c.listen = listen
	return c
}
