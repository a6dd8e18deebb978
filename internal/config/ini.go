// internal/config/ini.go
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Application holds the INI settings shared by every test case. It is
// loaded once per process and never modified.
type Application struct {
	BaseURL string
	// Source is the file the values were read from.
	Source string
}

const (
	commonSection = "COMMON"
	baseURLKey    = "BaseURL"
)

// LoadApplication reads COMMON/BaseURL from an INI file. A missing section
// or key yields an empty BaseURL, which Validate rejects.
func LoadApplication(filename string) (*Application, error) {
	f, err := ini.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return applicationFrom(f, filename), nil
}

// LoadApplicationBytes reads the INI settings from memory.
func LoadApplicationBytes(data []byte) (*Application, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI configuration: %w", err)
	}
	return applicationFrom(f, ""), nil
}

func applicationFrom(f *ini.File, source string) *Application {
	app := &Application{Source: source}
	if sec, err := f.GetSection(commonSection); err == nil && sec.HasKey(baseURLKey) {
		app.BaseURL = sec.Key(baseURLKey).String()
	}
	return app
}

// Validate reports a missing or malformed base URL.
func (a *Application) Validate() error {
	if a.BaseURL == "" {
		where := "configuration"
		if a.Source != "" {
			where = a.Source
		}
		return ValidationError{
			Field:   commonSection + "." + baseURLKey,
			Message: "base URL is not set in " + where,
		}
	}
	if err := validateBaseURL(a.BaseURL); err != nil {
		return ValidationError{Field: commonSection + "." + baseURLKey, Value: a.BaseURL, Message: err.Error()}
	}
	return nil
}

// ResolveBaseURL returns the suite override when set, otherwise the INI
// value from the configured file.
func (sc *SuiteConfig) ResolveBaseURL() (*Application, error) {
	if sc.Application.BaseURL != "" {
		app := &Application{BaseURL: sc.Application.BaseURL, Source: "override"}
		return app, app.Validate()
	}
	app, err := LoadApplication(sc.Application.ConfigFile)
	if err != nil {
		return nil, err
	}
	return app, app.Validate()
}
