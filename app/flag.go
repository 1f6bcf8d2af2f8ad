package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "The start of the reporting period (e.g. '2026-08-01')",
	}

	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "The end of the reporting period. Defaults to today",
	}

	daysFlag = &cli.UintFlag{
		Name:    "days",
		Aliases: []string{"d"},
		Usage:   "Report on the last N days. Ignored when --start is set",
		Value:   7,
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Output statistics in JSON format",
	}
)
