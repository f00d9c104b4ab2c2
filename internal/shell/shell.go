// Package shell implements the interactive command loop over the in-memory store:
// line parsing, dispatch to command handlers, and user-facing feedback.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/stackvity/memsh/internal/console"
	"github.com/stackvity/memsh/internal/filesystem"
	"github.com/stackvity/memsh/internal/template"
)

const (
	welcomeLine = "Welcome to TL&SPOS!"
	hintLine    = "Type 'help' for a list of commands."
)

// Editor opens a file for interactive editing and returns when the user leaves.
type Editor interface {
	Edit(p filesystem.Path, title string) error
}

// Options holds the settings the shell reads on every command. They can be
// replaced between commands with Configure.
type Options struct {
	Prompt       *template.Executor // nil renders the built-in prompt
	Placeholder  string
	ExportFormat string
	Palette      console.Palette
	Version      string
	Banner       bool // print the welcome lines when Run starts
}

// promptData is the data the prompt template is executed with.
type promptData struct {
	Cwd     string
	Version string
}

// Shell reads command lines from a terminal and executes them against a session.
type Shell struct {
	term     console.Terminal
	session  *Session
	editor   Editor
	logger   *slog.Logger
	opts     Options
	watcher  *ConfigWatcher
	commands []*command
	index    map[string]*command
}

// New creates a shell over fs with the cursor at the root folder.
func New(term console.Terminal, fs filesystem.FileSystem, ed Editor, logger *slog.Logger, opts Options) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sh := &Shell{
		term:    term,
		session: NewSession(fs),
		editor:  ed,
		logger:  logger,
		opts:    opts,
	}
	sh.commands = builtinCommands()
	sh.index = make(map[string]*command, len(sh.commands))
	for _, c := range sh.commands {
		for _, name := range c.names {
			sh.index[name] = c
		}
	}
	return sh
}

// Configure replaces the shell's options. The store and cursor are untouched.
func (sh *Shell) Configure(opts Options) {
	opts.Banner = sh.opts.Banner
	sh.opts = opts
	sh.logger.Debug("Shell options updated", "exportFormat", opts.ExportFormat, "color", opts.Palette.Enabled)
}

// SetWatcher makes Run poll w for configuration changes before every prompt.
func (sh *Shell) SetWatcher(w *ConfigWatcher) {
	sh.watcher = w
}

// Session returns the state the shell's commands operate on.
func (sh *Shell) Session() *Session {
	return sh.session
}

// Run executes command lines until the input ends or a command ends the session.
// Only terminal failures are returned; command failures are reported and the loop continues.
func (sh *Shell) Run() error {
	if sh.opts.Banner {
		sh.println(welcomeLine)
		sh.println(hintLine)
	}
	for {
		if sh.watcher != nil {
			sh.watcher.Poll()
		}
		io.WriteString(sh.term, sh.opts.Palette.Prompt(sh.prompt())) //nolint:errcheck

		line, err := sh.term.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				sh.println("")
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		if err := sh.Execute(line); err != nil {
			if errors.Is(err, ErrExit) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// RunLines executes each line in order without prompting, stopping early if a
// line ends the session.
func (sh *Shell) RunLines(lines []string) error {
	for _, line := range lines {
		if err := sh.Execute(line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Execute parses and runs one command line. Notices are printed and swallowed;
// the returned error is ErrExit or a failure of the terminal itself.
func (sh *Shell) Execute(line string) error {
	keyword, args := ParseLine(line)
	if keyword == "" {
		return nil
	}

	var err error
	if c, ok := sh.index[keyword]; ok {
		sh.logger.Debug("Dispatching command", "command", keyword, "args", args, "cwd", sh.session.Cwd)
		err = c.run(sh, args)
	} else {
		err = noticef(KindUnknownCommand, "Unknown command. %s", hintLine)
	}
	if err == nil {
		return nil
	}

	var n *Notice
	if errors.As(err, &n) {
		sh.logger.Debug("Command failed", "command", keyword, "kind", n.Kind.String(), "message", n.Msg)
		sh.println(sh.opts.Palette.Notice(n.Msg))
		return nil
	}
	if !errors.Is(err, ErrExit) && !errors.Is(err, io.EOF) {
		sh.logger.Error("Command aborted the session", "command", keyword, "error", err)
	}
	return err
}

// ParseLine splits a raw line into a lower-cased keyword and the trimmed
// remainder after the first run of whitespace.
func ParseLine(line string) (keyword, args string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:idx]), strings.TrimSpace(line[idx:])
}

func (sh *Shell) prompt() string {
	data := promptData{Cwd: sh.session.Cwd.String(), Version: sh.opts.Version}
	if sh.opts.Prompt != nil {
		rendered, err := sh.opts.Prompt.Execute(data)
		if err == nil {
			return rendered
		}
		sh.logger.Error("Failed to render prompt, using the built-in one", "template", sh.opts.Prompt.Name(), "error", err)
	}
	return data.Cwd + "@TLSPOS> "
}

func (sh *Shell) println(s string) {
	fmt.Fprintln(sh.term, s)
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.term, format, args...)
}

func (sh *Shell) success(format string, args ...any) {
	sh.println(sh.opts.Palette.Success(fmt.Sprintf(format, args...)))
}
