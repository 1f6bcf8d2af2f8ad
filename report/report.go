package report

import (
	"os"

	"github.com/pterm/pterm"
)

func TrackingStarted() {
	pterm.Info.Println("app usage tracking started")
}

func Error(err error) {
	pterm.Error.Println(err)
}

func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}
