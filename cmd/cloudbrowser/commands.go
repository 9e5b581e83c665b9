package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/cloudbrowser/internal/api"
	"github.com/GriffinCanCode/cloudbrowser/internal/automation"
	"github.com/GriffinCanCode/cloudbrowser/internal/codec"
	"github.com/GriffinCanCode/cloudbrowser/internal/presets"
)

// optionFlags describe a session on the command line. Flags override the
// preset file when both are given.
type optionFlags struct {
	preset   string
	label    string
	headless bool
	stealth  bool
	browser  string
	keepOpen int
	args     []string
	exts     []string
	advanced bool
}

func (o *optionFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.preset, "preset", "", "YAML, TOML or JSON preset file")
	f.StringVar(&o.label, "label", "", "session label")
	f.BoolVar(&o.headless, "headless", false, "run without a window")
	f.BoolVar(&o.stealth, "stealth", false, "enable anti-detection")
	f.StringVar(&o.browser, "browser", "", "chrome, firefox, chromium or chrome-headless-shell")
	f.IntVar(&o.keepOpen, "keep-open", 0, "seconds of inactivity before the session closes")
	f.StringSliceVar(&o.args, "arg", nil, "extra browser argument (repeatable)")
	f.StringSliceVar(&o.exts, "extension", nil, "extension bundle glob (repeatable)")
	f.BoolVar(&o.advanced, "advanced", false, "use the advanced open endpoint")
}

// build returns nil when nothing was set so the service applies its defaults.
func (o *optionFlags) build(cmd *cobra.Command) (*api.BrowserOptions, error) {
	var opts *api.BrowserOptions
	if o.preset != "" {
		var err error
		if opts, err = presets.LoadOptions(o.preset); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	set := func(name string) bool {
		if !f.Changed(name) {
			return false
		}
		if opts == nil {
			opts = &api.BrowserOptions{}
		}
		return true
	}

	if set("label") {
		opts.Label = o.label
	}
	if set("headless") {
		opts.Headless = api.Bool(o.headless)
	}
	if set("stealth") {
		opts.Stealth = api.Bool(o.stealth)
	}
	if set("browser") {
		b, err := api.ParseBrowser(o.browser)
		if err != nil {
			return nil, err
		}
		opts.Browser = &b
	}
	if set("keep-open") {
		opts.KeepOpen = api.Int(o.keepOpen)
	}
	if set("arg") {
		opts.Args = append(opts.Args, o.args...)
	}
	if set("extension") {
		bundles, err := presets.LoadExtensions(".", o.exts...)
		if err != nil {
			return nil, err
		}
		opts.Extensions = append(opts.Extensions, bundles...)
	}
	return opts, nil
}

func (a *app) openCmd() *cobra.Command {
	var o optionFlags
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a session and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := o.build(cmd)
			if err != nil {
				return err
			}

			open := a.svc.Open
			if o.advanced {
				open = a.svc.OpenAdvanced
			}
			opened, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if a.flags.json {
				return a.printJSON(opened)
			}
			fmt.Fprintln(a.out, opened.Address)
			return nil
		},
	}
	o.register(cmd)
	return cmd
}

func (a *app) launchCmd() *cobra.Command {
	var (
		o      optionFlags
		url    string
		text   string
		eval   string
		detach bool
	)
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Open a session, attach to it and visit a page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := o.build(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			browser, err := automation.Launch(ctx, a.svc, opts, nil, automation.WithLogger(a.logger.Logger))
			if err != nil {
				return err
			}
			defer browser.Close()
			fmt.Fprintln(a.out, "Browser connected")

			if !detach {
				defer func() {
					closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
					defer cancel()
					if err := a.svc.Close(closeCtx, browser.Address()); err != nil {
						fmt.Fprintln(a.errOut, describe(err))
						return
					}
					fmt.Fprintln(a.out, "Browser closed")
				}()
			}

			if url != "" {
				if err := browser.Navigate(ctx, url); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Web visited")
			}
			if text != "" {
				got, err := browser.Text(ctx, text)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, got)
			}
			if eval != "" {
				var res any
				if err := browser.Evaluate(ctx, eval, &res); err != nil {
					return err
				}
				return a.printJSON(res)
			}
			return nil
		},
	}
	o.register(cmd)
	cmd.Flags().StringVar(&url, "url", "", "page to visit")
	cmd.Flags().StringVar(&text, "text", "", "print the text of the first node matching this selector")
	cmd.Flags().StringVar(&eval, "eval", "", "evaluate a script and print its result")
	cmd.Flags().BoolVar(&detach, "detach", false, "leave the session open on exit")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := a.svc.Get(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.json {
				return a.printJSON(sessions)
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STARTED\tLABEL\tADDRESS")
			for _, s := range sessions {
				started := "-"
				if !s.StartedOn.IsZero() {
					started = s.StartedOn.Local().Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", started, s.Label, s.Address)
			}
			return tw.Flush()
		},
	}
}

func (a *app) closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close ADDRESS",
		Short: "Close a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Close(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Browser closed")
			return nil
		},
	}
}

func (a *app) rdpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rdp",
		Short: "Control the remote desktop of a session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start ADDRESS",
		Short: "Enable VNC and print its address and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rdp, err := a.svc.StartRemoteDesktop(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.json {
				return a.printJSON(rdp)
			}
			fmt.Fprintf(a.out, "address: %s\npassword: %s\n", rdp.Address, rdp.VNCPass)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop ADDRESS",
		Short: "Disable VNC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.StopRemoteDesktop(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Remote desktop stopped")
			return nil
		},
	})

	return cmd
}

func (a *app) printJSON(v any) error {
	data, err := codec.EncodeIndent(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}
