package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autofill-agent/internal/adapter/message"
	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/di"
	"autofill-agent/internal/infrastructure/page/htmldom"
)

type runFlags struct {
	url        string
	profile    string
	profileID  string
	screenshot string
	saveHTML   string
	headless   bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a URL in a browser, fill the form and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutofill(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.url, "url", "", "application page URL")
	f.StringVar(&flags.profile, "profile", "", "profile JSON file, - for stdin")
	f.StringVar(&flags.profileID, "profile-id", "", "load the profile from the tracker")
	f.StringVar(&flags.screenshot, "screenshot", "", "write a JPEG of the filled page to this path")
	f.StringVar(&flags.saveHTML, "save-html", "", "write a cleaned snapshot of the filled page for offline classify")
	f.BoolVar(&flags.headless, "headless", true, "run the browser without a window")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func runAutofill(cmd *cobra.Command, root *rootFlags, flags *runFlags) error {
	if flags.profile == "" && flags.profileID == "" {
		return errors.New("one of --profile or --profile-id is required")
	}

	cfg := loadConfig(cmd, root)
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = flags.headless
	}

	req := message.Request{
		Action:    message.ActionAutofill,
		URL:       flags.url,
		ProfileID: flags.profileID,
	}
	if flags.profile != "" {
		p, err := readProfile(flags.profile)
		if err != nil {
			return err
		}
		req.Profile = p
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), di.DefaultRunTimeout)
	defer cancel()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	container.Logger.Info("Run started", "url", flags.url)
	resp := container.Handler.Handle(ctx, req)

	if flags.screenshot != "" && container.Browser != nil {
		shot, err := container.Browser.Screenshot(ctx)
		if err != nil {
			container.Logger.Warn("Screenshot failed", "error", err)
		} else if err := os.WriteFile(flags.screenshot, shot.Data, 0o644); err != nil {
			container.Logger.Warn("Screenshot write failed", "path", flags.screenshot, "error", err)
		} else {
			container.Logger.Info("Screenshot saved", "path", flags.screenshot, "width", shot.Width, "height", shot.Height)
		}
	}

	if flags.saveHTML != "" && container.Browser != nil {
		if err := saveSnapshot(ctx, container.Browser, flags.saveHTML); err != nil {
			container.Logger.Warn("Snapshot failed", "path", flags.saveHTML, "error", err)
		} else {
			container.Logger.Info("Snapshot saved", "path", flags.saveHTML)
		}
	}

	if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("autofill failed: %s", resp.Error)
	}
	return nil
}

func saveSnapshot(ctx context.Context, browser output.BrowserPort, path string) error {
	src, err := browser.HTML(ctx)
	if err != nil {
		return err
	}
	clean, err := htmldom.Clean(src, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(clean), 0o644)
}
