package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"console_token_harvester/internal/config"
	"console_token_harvester/internal/console"
	"console_token_harvester/internal/probe"
)

func newRootCmd(log zerolog.Logger) *cobra.Command {
	var consoleURL string
	var headful bool

	root := &cobra.Command{
		Use:           "harvester",
		Short:         "Drives an API documentation console to harvest and verify bearer tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&consoleURL, "console-url", "", "documentation console URL (overrides CONSOLE_URL)")
	root.PersistentFlags().BoolVar(&headful, "headful", false, "run the browser with a visible window")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if consoleURL != "" {
			cfg.ConsoleURL = consoleURL
		}
		if headful {
			cfg.Headless = false
		}
		return cfg, nil
	}

	root.AddCommand(
		newHarvestCmd(log, loadConfig),
		newInvokeCmd(log, loadConfig),
		newAuthorizeCmd(log, loadConfig),
		newProbeCmd(log, loadConfig),
		newMonitorCmd(log, loadConfig),
	)
	return root
}

type configLoader func() (*config.Config, error)

func openConsole(ctx context.Context, cfg *config.Config, log zerolog.Logger) (context.Context, context.CancelFunc, *console.Console, error) {
	pageCtx, cancel, err := console.NewSession(ctx, console.SessionOptions{
		ConsoleURL: cfg.ConsoleURL,
		Headless:   cfg.Headless,
		Timeout:    cfg.SessionTimeout,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return pageCtx, cancel, console.New(log), nil
}

// harvestToken opens a fresh browser session and executes the login endpoint.
func harvestToken(ctx context.Context, cfg *config.Config, log zerolog.Logger) (string, error) {
	if cfg.LoginEndpointID == "" {
		return "", fmt.Errorf("CONSOLE_LOGIN_ENDPOINT is required")
	}

	pageCtx, cancel, c, err := openConsole(ctx, cfg, log)
	if err != nil {
		return "", err
	}
	defer cancel()

	token, err := c.InvokeEndpoint(pageCtx, console.InvokeRequest{
		EndpointID:  cfg.LoginEndpointID,
		Payload:     cfg.LoginPayload,
		ExpectToken: true,
	})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("no token returned by %q", cfg.LoginEndpointID)
	}
	return token, nil
}

func newHarvestCmd(log zerolog.Logger, load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Execute the login endpoint once and print the harvested token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			token, err := harvestToken(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newInvokeCmd(log zerolog.Logger, load configLoader) *cobra.Command {
	var endpointID string
	var payloadJSON string
	var payloadFile string
	var expectToken bool
	var authorize bool

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Execute one documented endpoint through the console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			var payload map[string]interface{}
			raw := payloadJSON
			if payloadFile != "" {
				data, err := os.ReadFile(payloadFile)
				if err != nil {
					return fmt.Errorf("could not read payload file: %w", err)
				}
				raw = string(data)
			}
			if raw != "" {
				if err := json.Unmarshal([]byte(raw), &payload); err != nil {
					return fmt.Errorf("payload is not valid JSON: %w", err)
				}
			}

			pageCtx, cancel, c, err := openConsole(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer cancel()

			token, err := c.InvokeEndpoint(pageCtx, console.InvokeRequest{
				EndpointID:  endpointID,
				Payload:     payload,
				ExpectToken: expectToken || authorize,
			})
			if err != nil {
				return err
			}
			if token != "" {
				fmt.Fprintln(cmd.OutOrStdout(), token)
			}
			if authorize {
				if _, err := c.Authorize(pageCtx, token); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&endpointID, "endpoint", "", "endpoint operation id, e.g. createUser")
	cmd.Flags().StringVar(&payloadJSON, "payload", "", "request body as inline JSON")
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "request body from a JSON file")
	cmd.Flags().BoolVar(&expectToken, "expect-token", false, "capture data.token from the response")
	cmd.Flags().BoolVar(&authorize, "authorize", false, "feed the captured token into the authorization dialog")
	_ = cmd.MarkFlagRequired("endpoint")
	return cmd
}

func newAuthorizeCmd(log zerolog.Logger, load configLoader) *cobra.Command {
	var tokenValue string

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Register a token in the console's global authorization dialog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			pageCtx, cancel, c, err := openConsole(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer cancel()

			authorized, err := c.Authorize(pageCtx, tokenValue)
			if err != nil {
				return err
			}
			if !authorized {
				fmt.Fprintln(cmd.OutOrStdout(), "no token available, nothing authorized")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tokenValue, "token", "", "bearer token to register")
	return cmd
}

func newProbeCmd(log zerolog.Logger, load configLoader) *cobra.Command {
	var tokenValue string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Verify a token against the live API over REST and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.APIBaseURL == "" {
				return fmt.Errorf("API_BASE_URL is required")
			}

			res, err := probe.CheckREST(cmd.Context(), cfg.APIBaseURL, cfg.ProbePath, tokenValue)
			if err != nil {
				return err
			}
			log.Info().
				Int("status", res.StatusCode).
				Float64("latency_ms", res.LatencyMs).
				Bool("authorized", res.Authorized).
				Msg("rest probe")

			if cfg.WSURL != "" {
				wsRes, err := probe.CheckWS(cmd.Context(), cfg.WSURL, tokenValue)
				if err != nil {
					return err
				}
				log.Info().
					Float64("latency_ms", wsRes.LatencyMs).
					Int("frame_bytes", len(wsRes.FirstFrame)).
					Msg("ws probe")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tokenValue, "token", "", "bearer token to verify")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
