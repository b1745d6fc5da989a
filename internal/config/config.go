// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings is the host-supplied configuration surface the core recognizes
// (see the external-interfaces configuration table).
type Settings struct {
	APIKey       string `mapstructure:"api_key" validate:"required"`
	LanguageCode string `mapstructure:"language_code" validate:"required,oneof=eng zho"`
	Hotkey       string `mapstructure:"hotkey" validate:"required"`

	PartialRewriteEnabled      bool   `mapstructure:"partial_rewrite_enabled"`
	PartialRewriteMaxBackspace int    `mapstructure:"partial_rewrite_max_backspace" validate:"min=0,max=64"`
	PartialRewriteWindowMs     uint64 `mapstructure:"partial_rewrite_window_ms" validate:"max=2000"`

	LogLevel string `mapstructure:"log_level" validate:"required"`
}

var validate = validator.New()

// Load reads the configuration surface from environment variables (and an
// optional overrides map the host passes in directly, e.g. from a settings
// form) and returns a validated Settings. A missing/invalid API key or an
// out-of-range option surfaces as ConfigInvalid.
func Load(overrides map[string]any) (Settings, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.AutomaticEnv()
	// api_key has no default, so Unmarshal only sees it from the
	// environment once it is bound explicitly.
	_ = v.BindEnv("api_key")
	setDefaults(v)

	for key, value := range overrides {
		v.Set(key, value)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	settings.APIKey = strings.TrimSpace(settings.APIKey)

	if err := validate.Struct(&settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if settings.APIKey == "" {
		return Settings{}, fmt.Errorf("%w: api_key must not be empty", ErrConfigInvalid)
	}

	return settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("language_code", "eng")
	v.SetDefault("hotkey", "Ctrl+N")
	v.SetDefault("partial_rewrite_enabled", true)
	v.SetDefault("partial_rewrite_max_backspace", 12)
	v.SetDefault("partial_rewrite_window_ms", 140)
	v.SetDefault("log_level", "info")
}
