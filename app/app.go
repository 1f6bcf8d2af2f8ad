// Package app defines the appwatch command-line interface.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/appwatch/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the appwatch app instance.
func Get() *cli.App {
	appwatchApp := &cli.App{
		Name: "appwatch",
		Usage: `
		Appwatch tracks which application holds input focus, aggregates the
		resulting usage sessions into statistics, and delivers a weekly
		summary report through Kakao Talk.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name: "stats",
				Usage: `
				Report usage statistics for a time period. Defaults to a
				reporting period of 7 days`,
				Action: statsAction,
				Flags: []cli.Flag{
					startFlag,
					endFlag,
					daysFlag,
					jsonFlag,
				},
			},
			{
				Name:   "report",
				Usage:  "Generate the usage report and deliver it immediately",
				Action: reportAction,
			},
			{
				Name:   "auth",
				Usage:  "Authorize appwatch to send Kakao Talk messages",
				Action: authAction,
			},
			{
				Name:   "status",
				Usage:  "Print a summary of today's usage",
				Action: statusAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return appwatchApp
}
