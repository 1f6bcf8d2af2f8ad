// Package config loads and persists appwatch settings, including the
// messaging credential.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

type (
	// Config holds all configuration settings
	Config struct {
		Tracking TrackingConfig
		Report   ReportConfig
		Kakao    KakaoConfig
	}

	// TrackingConfig holds focus-sampling settings
	TrackingConfig struct {
		SampleInterval time.Duration `mapstructure:"sample_interval"`
	}

	// ReportConfig holds report generation and delivery settings
	ReportConfig struct {
		Schedule   string `mapstructure:"schedule"`
		WindowDays int    `mapstructure:"window_days"`
		TopApps    int    `mapstructure:"top_apps"`
		Notify     bool   `mapstructure:"notify"`
	}

	// KakaoConfig holds the messaging transport settings and credential
	KakaoConfig struct {
		AppKey       string `mapstructure:"app_key"`
		RedirectURI  string `mapstructure:"redirect_uri"`
		AccessToken  string `mapstructure:"access_token"`
		RefreshToken string `mapstructure:"refresh_token"`
		RecipientID  string `mapstructure:"recipient_id"`
	}
)

const Version = "v0.1.0"

var (
	configDir      = "appwatch"
	configFileName = "config.yml"
	dbFileName     = "appwatch.db"
	logFileName    = "appwatch.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func InitializePaths() {
	appwatchEnv := strings.TrimSpace(os.Getenv("APPWATCH_ENV"))
	if appwatchEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", appwatchEnv)
		dbFileName = fmt.Sprintf("appwatch_%s.db", appwatchEnv)
		logFileName = fmt.Sprintf("appwatch_%s.log", appwatchEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, logFileName)
}
