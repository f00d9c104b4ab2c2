package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackvity/memsh/internal/config"
	"github.com/stackvity/memsh/internal/console"
	"github.com/stackvity/memsh/internal/editor"
	"github.com/stackvity/memsh/internal/filesystem"
	"github.com/stackvity/memsh/internal/shell"
	"github.com/stackvity/memsh/internal/template"
)

// Variables for version embedding via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes defined for clarity
const (
	ExitCodeSuccess       = 0
	ExitCodeConfigError   = 2
	ExitCodeTerminalError = 4
	ExitCodeUnknown       = 10
)

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"prompt":         "prompt",
	"color":          "color",
	"verbose":        "verbose",
	"log-file":       "logFile",
	"placeholder":    "placeholder",
	"strict-parents": "strictParents",
	"export-format":  "exportFormat",
	"watch-config":   "watchConfig",
	"exec":           "exec",
}

var (
	configFile string
	cfgViper   *viper.Viper // layered sources, kept for reloads
	logger     *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memsh",
	Short: "An interactive shell over a file system that lives in memory",
	Long: `memsh starts a line-oriented shell whose folders and text files exist only
for the lifetime of the session. Files are edited in a small full-screen
editor; nothing is ever written to the host disk.

Commands can also be run non-interactively with --exec.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(viper.GetViper())
		if err != nil {
			return &exitError{code: ExitCodeConfigError, msg: "Configuration error", err: err}
		}

		logOut, closeLog, err := openLogOutput(opts.LogFile)
		if err != nil {
			return &exitError{code: ExitCodeConfigError, msg: "Error opening log file", err: err}
		}
		defer closeLog()

		logLevel := slog.LevelWarn
		if opts.Verbose {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))
		logger.Debug("Configuration loaded and validated successfully", "options", *opts)

		interactive := console.IsInteractive(os.Stdin)
		term := console.NewStdTerminal(os.Stdin, os.Stdout)
		store := filesystem.NewStore(logger, filesystem.WithStrictParents(opts.StrictParents))

		shellOpts, err := shellOptions(opts)
		if err != nil {
			return &exitError{code: ExitCodeConfigError, msg: "Configuration error", err: err}
		}
		shellOpts.Banner = interactive && len(opts.Exec) == 0

		ed := editor.New(term, store, logger, editor.Options{
			VisibleRows: opts.Editor.VisibleRows,
			NoticeDelay: opts.Editor.NoticeDelay,
			Palette:     shellOpts.Palette,
		})
		sh := shell.New(term, store, ed, logger, shellOpts)

		if opts.WatchConfig {
			if used := cfgViper.ConfigFileUsed(); used != "" {
				w, err := shell.NewConfigWatcher(used, reloadFunc(sh), logger)
				if err != nil {
					logger.Warn("Config watching disabled", "error", err)
				} else {
					defer w.Close()
					sh.SetWatcher(w)
				}
			} else {
				logger.Warn("watchConfig is set but no config file is in use")
			}
		}

		if len(opts.Exec) > 0 {
			err = sh.RunLines(opts.Exec)
		} else {
			err = sh.Run()
		}
		if err != nil {
			logger.Error("Session ended abnormally", "error", err)
			return &exitError{code: ExitCodeTerminalError, msg: "Error", err: err}
		}
		logger.Debug("Session ended", "cwd", sh.Session().Cwd, "entries", store.Len())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run())
}

// run executes the root command and maps its error onto an exit code. Deferred
// cleanup inside RunE has already happened by the time it returns.
func run() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitCodeSuccess
	}
	// Use fmt because logger might not be initialized.
	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ee.msg, ee.err)
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
	return ExitCodeUnknown
}

// exitError ends the process with code after RunE has returned.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Configuration file path (default: .memsh.yaml, memsh.yaml)")
	flags.BoolP("verbose", "v", false, "Enable verbose debug logging")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.String("prompt", config.DefaultPrompt, "Prompt template; fields: .Cwd, .Version")
	flags.Bool("color", true, "Color the prompt and messages (use --color=false to disable)")
	flags.String("placeholder", config.DefaultPlaceholder, "Content of newly created text files")
	flags.Bool("strict-parents", true, "Require the parent folder to exist when creating or renaming")
	flags.String("export-format", config.FormatYAML, "Default format of the export command: 'yaml' or 'toml'")
	flags.Bool("watch-config", false, "Reload the config file when it changes")
	flags.StringArrayP("exec", "e", nil, "Run this command line and exit (can be repeated)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("memsh version %s (commit: %s, built: %s)\n", version, commit, date))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	v := viper.New()

	// 1. Defaults
	config.SetDefaults(v)

	// 2. Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("MEMSH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// 3. Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading specified config file %s: %v\n", configFile, err)
			os.Exit(ExitCodeConfigError)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".memsh")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), err)
				os.Exit(ExitCodeConfigError)
			}
			v.SetConfigName("memsh")
			if err := v.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), err)
					os.Exit(ExitCodeConfigError)
				}
			}
		}
	}

	// 4. Flags, highest precedence when set
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Internal error binding flag %s to viper: %v\n", flag, err)
			os.Exit(ExitCodeConfigError)
		}
	}
	cfgViper = v

	// 5. Merge into the global viper instance used by RunE
	if err := viper.MergeConfigMap(v.AllSettings()); err != nil {
		fmt.Fprintf(os.Stderr, "Internal error merging viper settings: %v\n", err)
		os.Exit(ExitCodeConfigError)
	}
}

// loadOptions unmarshals and validates the options held by v.
func loadOptions(v *viper.Viper) (*config.Options, error) {
	opts := &config.Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("unmarshalling configuration: %w", err)
	}
	opts.ConfigFile = configFile
	if err := opts.ValidateConfig(); err != nil {
		return nil, err
	}
	return opts, nil
}

// shellOptions derives the settings the shell reads from the loaded options.
func shellOptions(opts *config.Options) (shell.Options, error) {
	prompt, err := template.NewExecutor("prompt", opts.Prompt)
	if err != nil {
		return shell.Options{}, err
	}
	return shell.Options{
		Prompt:       prompt,
		Placeholder:  opts.Placeholder,
		ExportFormat: opts.ExportFormat,
		Palette:      console.Palette{Enabled: opts.Color && console.IsInteractive(os.Stdout)},
		Version:      version,
	}, nil
}

// reloadFunc re-reads the config file and applies the settings that may change
// mid-session. Store-shaping and logging settings keep their startup values.
func reloadFunc(sh *shell.Shell) func() error {
	return func() error {
		if err := cfgViper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		opts, err := loadOptions(cfgViper)
		if err != nil {
			return err
		}
		shellOpts, err := shellOptions(opts)
		if err != nil {
			return err
		}
		sh.Configure(shellOpts)
		return nil
	}
}

// openLogOutput returns stderr, or the file at path opened for appending.
func openLogOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func main() {
	Execute()
}
