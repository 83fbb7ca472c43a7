package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/preview"
	"github.com/vango-dev/cosmos/pkg/store"
)

func renderCmd() *cobra.Command {
	var (
		actions []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "render <fixture>",
		Short: "Render a fixture and print the output",
		Long: `Render a fixture once and print the component output.

Actions given with --dispatch are sent to the fixture store in order
before printing. An action is a type, optionally followed by "=" and a
JSON payload.

Examples:
  cosmos render counter
  cosmos render counter --dispatch increment --dispatch add=5
  cosmos render counter --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]store.Action, 0, len(actions))
			for _, a := range actions {
				action, err := parseAction(a)
				if err != nil {
					return err
				}
				parsed = append(parsed, action)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			src, _, err := openSource(ctx, cfg, logger)
			if err != nil {
				return err
			}
			named, err := src.Load(ctx, args[0])
			if err != nil {
				return err
			}
			reg, err := newRegistry().Lookup(named.Component)
			if err != nil {
				return err
			}

			l := preview.NewLoader(preview.Options{
				Name:      named.Name,
				Fixture:   named.Data,
				Component: reg.New(),
				Proxies:   reg.Proxies(cfg.ReduxOptions()...),
				Logger:    logger,
			})
			if _, err := l.Mount(ctx); err != nil {
				return err
			}
			defer l.Unmount()

			for _, action := range parsed {
				if err := l.Dispatch(ctx, action); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				fmt.Fprintln(out, l.Output())
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(renderResult{
				Name:      named.Name,
				Component: named.Component,
				Fixture:   l.Fixture(),
				Output:    l.Output(),
			})
		},
	}

	cmd.Flags().StringArrayVarP(&actions, "dispatch", "d", nil, "Action to dispatch before printing (type or type=JSON)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the fixture and output as JSON")

	return cmd
}

type renderResult struct {
	Name      string          `json:"name"`
	Component string          `json:"component"`
	Fixture   fixture.Fixture `json:"fixture"`
	Output    string          `json:"output"`
}

// parseAction parses "type" or "type=<json payload>".
func parseAction(s string) (store.Action, error) {
	typ, payload, hasPayload := strings.Cut(s, "=")
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return store.Action{}, errors.New("E400").WithSubject(s).Wrap(store.ErrEmptyActionType)
	}
	action := store.Action{Type: typ}
	if hasPayload {
		if err := json.Unmarshal([]byte(payload), &action.Payload); err != nil {
			return store.Action{}, errors.New("E400").WithSubject(s).Wrap(err)
		}
	}
	return action, nil
}
