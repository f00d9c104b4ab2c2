package editor

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/stackvity/memsh/internal/console"
	"github.com/stackvity/memsh/internal/filesystem"
)

// Options controls how the editor draws and confirms.
type Options struct {
	VisibleRows int
	NoticeDelay time.Duration
	Palette     console.Palette
}

// Editor runs the blocking read/redraw loop over one file.
type Editor struct {
	term   console.Terminal
	fs     filesystem.FileSystem
	logger *slog.Logger
	opts   Options
	sleep  func(time.Duration)
}

// New creates an editor drawing on term and saving into fs.
func New(term console.Terminal, fs filesystem.FileSystem, logger *slog.Logger, opts Options) *Editor {
	if opts.VisibleRows <= 0 {
		opts.VisibleRows = 20
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Editor{
		term:   term,
		fs:     fs,
		logger: logger,
		opts:   opts,
		sleep:  time.Sleep,
	}
}

// Edit opens the file at p and runs until Escape. Every save writes the joined
// lines back to the store; leaving without saving discards in-memory edits.
// A failed keystroke read ends the session with the error and nothing saved
// since the last Ctrl+S.
func (e *Editor) Edit(p filesystem.Path, title string) error {
	content, err := e.fs.ReadFile(p)
	if err != nil {
		return err
	}

	st := NewState(content)
	e.logger.Debug("Editor opened", "path", p, "lines", len(st.Lines))
	for st.Editing {
		e.draw(st, title)

		k, err := e.term.ReadKey()
		if err != nil {
			e.term.Clear()
			return fmt.Errorf("reading keystroke: %w", err)
		}

		var act Action
		st, act = ApplyKey(st, k)
		if act == ActionSave {
			if err := e.save(p, st); err != nil {
				e.term.Clear()
				return err
			}
		}
	}

	e.term.Clear()
	e.logger.Debug("Editor closed", "path", p)
	return nil
}

func (e *Editor) draw(st State, title string) {
	e.term.Clear()
	io.WriteString(e.term, Render(st, title, e.opts.VisibleRows, e.opts.Palette)) //nolint:errcheck
}

func (e *Editor) save(p filesystem.Path, st State) error {
	if err := e.fs.WriteFile(p, st.Content()); err != nil {
		return fmt.Errorf("saving %s: %w", p, err)
	}
	e.logger.Debug("Editor saved", "path", p, "lines", len(st.Lines))
	fmt.Fprintf(e.term, "\n%s\n", e.opts.Palette.Success("File saved."))
	if e.opts.NoticeDelay > 0 {
		e.sleep(e.opts.NoticeDelay)
	}
	return nil
}
