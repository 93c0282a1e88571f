package console

import (
	"context"
	"fmt"
)

// Authorize submits a harvested token through the console's global
// authorization dialog. The console itself attaches it as the bearer
// credential on later interactive requests; there is no verification that the
// authorization took effect. It reports whether an authorization was actually
// performed: an empty token is a valid state and skips all UI interaction.
func (c *Console) Authorize(ctx context.Context, token string) (bool, error) {
	if token == "" {
		c.log.Warn().Msg("no token available, skipping console authorization")
		return false, nil
	}

	if err := c.drv.Click(ctx, authorizeOpenSel); err != nil {
		return false, fmt.Errorf("could not open authorization dialog: %w", err)
	}
	if err := c.drv.WaitVisible(ctx, authorizeInputSel); err != nil {
		return false, fmt.Errorf("credential input did not appear: %w", err)
	}
	if err := c.drv.SetValue(ctx, authorizeInputSel, token); err != nil {
		return false, fmt.Errorf("could not fill credential input: %w", err)
	}
	if err := c.drv.Click(ctx, authorizeSubmitSel); err != nil {
		return false, fmt.Errorf("could not submit authorization: %w", err)
	}
	if err := c.drv.Click(ctx, authorizeCloseSel); err != nil {
		return false, fmt.Errorf("could not close authorization dialog: %w", err)
	}

	c.log.Info().Int("token_length", len(token)).Msg("console authorization submitted")
	return true, nil
}
