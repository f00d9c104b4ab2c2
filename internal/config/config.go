package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stackvity/memsh/internal/template"
)

// Export formats accepted by the export command and the exportFormat key.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// DefaultPrompt renders the current directory followed by the system tag.
const DefaultPrompt = "{{.Cwd}}@TLSPOS> "

// DefaultPlaceholder is the content of a freshly created text file.
const DefaultPlaceholder = "This is a new text file."

// EditorConfig holds settings for the full-screen line editor.
type EditorConfig struct {
	VisibleRows int           `mapstructure:"visibleRows"`
	NoticeDelay time.Duration `mapstructure:"noticeDelay"`
}

// Options holds all the configuration settings for memsh.
// Tags are used by Viper for unmarshalling from config files, env vars, and flags.
type Options struct {
	// Presentation
	Prompt string `mapstructure:"prompt"` // text/template; data has Cwd and Version
	Color  bool   `mapstructure:"color"`

	// Logging
	Verbose bool   `mapstructure:"verbose"`
	LogFile string `mapstructure:"logFile"` // host path; empty means stderr

	// Store behavior
	Placeholder   string `mapstructure:"placeholder"`
	StrictParents bool   `mapstructure:"strictParents"`

	// Commands
	ExportFormat string   `mapstructure:"exportFormat"` // "yaml" or "toml"
	Exec         []string `mapstructure:"exec"`         // run these lines then exit

	WatchConfig bool         `mapstructure:"watchConfig"`
	Editor      EditorConfig `mapstructure:"editor"`

	// Internal - Not typically set by user directly
	ConfigFile string `mapstructure:"config"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("prompt", DefaultPrompt)
	v.SetDefault("color", true)
	v.SetDefault("verbose", false)
	v.SetDefault("logFile", "")
	v.SetDefault("placeholder", DefaultPlaceholder)
	v.SetDefault("strictParents", true)
	v.SetDefault("exportFormat", FormatYAML)
	v.SetDefault("watchConfig", false)
	v.SetDefault("editor.visibleRows", 20)
	v.SetDefault("editor.noticeDelay", "1s")
	v.SetDefault("exec", []string{})
}

// ValidateConfig checks the loaded configuration options for validity.
// Every violation is collected and reported in a single error.
func (opts *Options) ValidateConfig() error {
	var errs []string

	if strings.TrimSpace(opts.Prompt) == "" {
		errs = append(errs, "prompt cannot be empty")
	} else if _, err := template.NewExecutor("prompt", opts.Prompt); err != nil {
		errs = append(errs, fmt.Sprintf("prompt is not a valid template: %v", err))
	}

	if opts.LogFile != "" {
		parentDir := filepath.Dir(opts.LogFile)
		info, err := os.Stat(parentDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Sprintf("parent directory '%s' for logFile '%s' does not exist", parentDir, opts.LogFile))
			} else {
				errs = append(errs, fmt.Sprintf("cannot access parent directory '%s' for logFile: %v", parentDir, err))
			}
		} else if !info.IsDir() {
			errs = append(errs, fmt.Sprintf("parent path '%s' for logFile '%s' is not a directory", parentDir, opts.LogFile))
		}
	}

	if opts.ExportFormat != FormatYAML && opts.ExportFormat != FormatTOML {
		errs = append(errs, "exportFormat must be 'yaml' or 'toml'")
	}

	if opts.Editor.VisibleRows <= 0 {
		errs = append(errs, "editor.visibleRows must be positive")
	}
	if opts.Editor.NoticeDelay < 0 {
		errs = append(errs, "editor.noticeDelay duration must be non-negative")
	}

	for i, line := range opts.Exec {
		if strings.TrimSpace(line) == "" {
			errs = append(errs, fmt.Sprintf("exec[%d] is blank", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	return nil
}
