package console

import (
	"context"
	"encoding/json"
	"fmt"
)

// InvokeRequest describes one interactive execution of a documented endpoint.
type InvokeRequest struct {
	// EndpointID is the operation id of the panel, e.g. "createUser".
	EndpointID string
	// Payload, when non-nil, is serialized to JSON and written into the
	// panel's request-body editor before executing.
	Payload map[string]interface{}
	// ExpectToken turns on the response observer: a 200 response carrying a
	// data.token field resolves into the returned token.
	ExpectToken bool
}

// InvokeEndpoint expands the endpoint's panel, fills the optional payload,
// clicks Execute and returns whatever token the response observer captured.
// An empty token is a valid outcome. Any missing UI control aborts the
// sequence and the underlying error propagates unmodified.
func (c *Console) InvokeEndpoint(ctx context.Context, req InvokeRequest) (string, error) {
	if req.EndpointID == "" {
		return "", fmt.Errorf("endpoint id is required")
	}

	tc := newTokenCapture(req.ExpectToken)
	c.listen(ctx, tc)

	panel := panelSelector(req.EndpointID)
	if err := c.drv.WaitVisible(ctx, panel); err != nil {
		return "", fmt.Errorf("endpoint panel %q not found: %w", req.EndpointID, err)
	}

	toggle := panelChild(req.EndpointID, summarySel)
	expanded, _, err := c.drv.AttributeValue(ctx, toggle, "aria-expanded")
	if err != nil {
		return "", fmt.Errorf("could not read expand state of %q: %w", req.EndpointID, err)
	}
	if expanded != "true" {
		if err := c.drv.Click(ctx, toggle); err != nil {
			return "", fmt.Errorf("could not expand panel %q: %w", req.EndpointID, err)
		}
	}

	tryOut := panelChild(req.EndpointID, tryItOutSel)
	if err := c.drv.WaitVisible(ctx, tryOut); err != nil {
		return "", fmt.Errorf("try-it-out control of %q not found: %w", req.EndpointID, err)
	}
	if err := c.drv.Click(ctx, tryOut); err != nil {
		return "", fmt.Errorf("could not enable interactive execution on %q: %w", req.EndpointID, err)
	}

	if req.Payload != nil {
		body, err := json.Marshal(req.Payload)
		if err != nil {
			return "", fmt.Errorf("could not serialize payload: %w", err)
		}
		input := panelChild(req.EndpointID, bodyInputSel)
		if err := c.drv.Clear(ctx, input); err != nil {
			return "", fmt.Errorf("could not clear request body of %q: %w", req.EndpointID, err)
		}
		if err := c.drv.SetValue(ctx, input, string(body)); err != nil {
			return "", fmt.Errorf("could not fill request body of %q: %w", req.EndpointID, err)
		}
		// the editor validates on input, give it a moment before executing
		if err := c.drv.Sleep(ctx, c.settleDelay); err != nil {
			return "", err
		}
	}

	if err := c.drv.Click(ctx, panelChild(req.EndpointID, executeSel)); err != nil {
		return "", fmt.Errorf("could not execute %q: %w", req.EndpointID, err)
	}

	// the response section renders once the console received the response,
	// then the observer gets a bounded grace period to resolve the body
	if err := c.drv.WaitVisible(ctx, panelChild(req.EndpointID, responseSel)); err != nil {
		return "", fmt.Errorf("no response rendered for %q: %w", req.EndpointID, err)
	}

	token := tc.wait(ctx, c.responseWait)
	if req.ExpectToken {
		if token == "" {
			c.log.Warn().Str("endpoint", req.EndpointID).Msg("no token captured from response")
		} else {
			c.log.Info().Str("endpoint", req.EndpointID).Int("token_length", len(token)).Msg("token captured")
		}
	}
	return token, nil
}
