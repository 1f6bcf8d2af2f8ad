package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/appwatch/internal/models"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keySampleInterval   = "tracking.sample_interval"
	keyReportSchedule   = "report.schedule"
	keyReportWindowDays = "report.window_days"
	keyReportTopApps    = "report.top_apps"
	keyReportNotify     = "report.notify"
	keyKakaoAppKey      = "kakao.app_key"
	keyKakaoRedirectURI = "kakao.redirect_uri"
	keyAccessToken      = "kakao.access_token"
	keyRefreshToken     = "kakao.refresh_token"
	keyRecipientID      = "kakao.recipient_id"
)

// Load reads the config file, writing one with empty defaults first if it
// does not exist yet.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return nil, fmt.Errorf("writing default config failed: %w", err)
		}
	}

	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshalling config failed: %w", err)
	}

	return &c, nil
}

// setDefaults configures Viper with default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault(keySampleInterval, "1s")
	// every Sunday at 22:00 local time
	v.SetDefault(keyReportSchedule, "0 22 * * 0")
	v.SetDefault(keyReportWindowDays, 7)
	v.SetDefault(keyReportTopApps, 10)
	v.SetDefault(keyReportNotify, true)
	v.SetDefault(keyKakaoAppKey, "")
	v.SetDefault(keyKakaoRedirectURI, "http://localhost:8080/callback")
	v.SetDefault(keyAccessToken, "")
	v.SetDefault(keyRefreshToken, "")
	v.SetDefault(keyRecipientID, "")
}

// SaveCredential writes a refreshed token pair back to the config file so
// the next process start picks it up.
func SaveCredential(configPath string, cred models.Credential) error {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config file failed: %w", err)
	}

	v.Set(keyAccessToken, cred.AccessToken)
	v.Set(keyRefreshToken, cred.RefreshToken)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("persisting credential failed: %w", err)
	}

	return nil
}
