package shell

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/memsh/internal/console"
	"github.com/stackvity/memsh/internal/editor"
	"github.com/stackvity/memsh/internal/filesystem"
	"github.com/stackvity/memsh/internal/template"
)

const placeholder = "This is a new text file."

type testShell struct {
	*Shell
	term  *console.Script
	out   *bytes.Buffer
	store *filesystem.Store
}

func newTestShell(t *testing.T, opts Options, storeOpts ...filesystem.Option) *testShell {
	t.Helper()
	var out bytes.Buffer
	term := console.NewScript(&out)
	store := filesystem.NewStore(nil, storeOpts...)
	ed := editor.New(term, store, nil, editor.Options{VisibleRows: 5})
	if opts.ExportFormat == "" {
		opts.ExportFormat = "yaml"
	}
	return &testShell{
		Shell: New(term, store, ed, nil, opts),
		term:  term,
		out:   &out,
		store: store,
	}
}

// exec runs lines and returns everything they printed.
func (ts *testShell) exec(t *testing.T, lines ...string) string {
	t.Helper()
	ts.out.Reset()
	require.NoError(t, ts.RunLines(lines))
	return ts.out.String()
}

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name            string
		line            string
		expectedKeyword string
		expectedArgs    string
	}{
		{name: "Empty", line: "", expectedKeyword: "", expectedArgs: ""},
		{name: "Blank", line: "   \t", expectedKeyword: "", expectedArgs: ""},
		{name: "KeywordOnly", line: "dir", expectedKeyword: "dir", expectedArgs: ""},
		{name: "KeywordLowercased", line: "DIRF Docs", expectedKeyword: "dirf", expectedArgs: "Docs"},
		{name: "ArgsTrimmed", line: "  createf   docs  ", expectedKeyword: "createf", expectedArgs: "docs"},
		{name: "SplitOnFirstWhitespaceOnly", line: "rnf a  b", expectedKeyword: "rnf", expectedArgs: "a  b"},
		{name: "TabSeparator", line: "read\tnotes", expectedKeyword: "read", expectedArgs: "notes"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			keyword, args := ParseLine(tc.line)
			assert.Equal(t, tc.expectedKeyword, keyword)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestShell_EditScenario(t *testing.T) {
	t.Run("EmptyPlaceholder", func(t *testing.T) {
		ts := newTestShell(t, Options{Placeholder: ""})
		ts.term.AddKeys(console.Type("hi")...)
		ts.term.AddKeys(console.Special(console.KeySave), console.Special(console.KeyEscape))

		out := ts.exec(t, "createf docs", "dirf docs", "addtxt notes", "edit notes", "bttree", "dirf docs", "read notes")

		assert.Contains(t, out, "Content: hi\n")
		content, err := ts.store.ReadFile("root/docs/notes")
		require.NoError(t, err)
		assert.Equal(t, "hi", content)
		assert.Equal(t, filesystem.Path("root/docs"), ts.Session().Cwd)
	})

	t.Run("DefaultPlaceholder", func(t *testing.T) {
		ts := newTestShell(t, Options{Placeholder: placeholder})
		ts.term.AddKeys(console.Type("hi")...)
		ts.term.AddKeys(console.Special(console.KeySave), console.Special(console.KeyEscape))

		out := ts.exec(t, "createf docs", "dirf docs", "addtxt notes", "edit notes", "bttree", "dirf docs", "read notes")

		assert.Contains(t, out, "Content: hi"+placeholder+"\n", "typing starts at the top of the file")
		assert.Contains(t, out, "File 'notes' updated successfully in memory.")
	})
}

type editFunc func(p filesystem.Path, title string) error

func (f editFunc) Edit(p filesystem.Path, title string) error { return f(p, title) }

func TestShell_EditReadFailures(t *testing.T) {
	readErr := errors.New("read failed")
	noop := editFunc(func(filesystem.Path, string) error { return nil })

	t.Run("AfterEditing", func(t *testing.T) {
		mfs := filesystem.NewMockFileSystem()
		mfs.On("Stat", filesystem.Path("root/notes")).Return(filesystem.Entry{Path: "root/notes"}, nil)
		mfs.On("ReadFile", filesystem.Path("root/notes")).Return("before", nil).Once()
		mfs.On("ReadFile", filesystem.Path("root/notes")).Return("", readErr).Once()

		var out bytes.Buffer
		sh := New(console.NewScript(&out), mfs, noop, nil, Options{})
		err := sh.Execute("edit notes")

		assert.ErrorIs(t, err, readErr)
		assert.NotContains(t, out.String(), "updated successfully")
		mfs.AssertExpectations(t)
	})

	t.Run("BeforeEditing", func(t *testing.T) {
		mfs := filesystem.NewMockFileSystem()
		mfs.On("Stat", filesystem.Path("root/notes")).Return(filesystem.Entry{Path: "root/notes"}, nil)
		mfs.On("ReadFile", filesystem.Path("root/notes")).Return("", readErr).Once()

		opened := false
		ed := editFunc(func(filesystem.Path, string) error { opened = true; return nil })
		var out bytes.Buffer
		sh := New(console.NewScript(&out), mfs, ed, nil, Options{})

		assert.ErrorIs(t, sh.Execute("edit notes"), readErr)
		assert.False(t, opened, "the editor must not open on a failed read")
	})
}

func TestShell_CreateAndRead(t *testing.T) {
	ts := newTestShell(t, Options{Placeholder: placeholder})

	out := ts.exec(t, "addtxt a", "read a")
	assert.Contains(t, out, "Text file 'a' created successfully in memory.")
	assert.Contains(t, out, "Reading file: a\nContent: "+placeholder+"\n")

	require.NoError(t, ts.store.WriteFile("root/a", "changed"))
	out = ts.exec(t, "addtxt a")
	assert.Contains(t, out, "Text file 'a' already exists in memory.")
	content, _ := ts.store.ReadFile("root/a")
	assert.Equal(t, "changed", content, "a second create must not overwrite")

	out = ts.exec(t, "createf a")
	assert.Contains(t, out, "Folder 'a' already exists in memory.")

	out = ts.exec(t, "createf d", "read d", "read missing")
	assert.Contains(t, out, "File 'd' does not exist in memory or is a folder.")
	assert.Contains(t, out, "File 'missing' does not exist in memory or is a folder.")
}

func TestShell_MissingArguments(t *testing.T) {
	testCases := []struct {
		line     string
		expected string
	}{
		{line: "createf", expected: "Please specify the folder name."},
		{line: "addtxt", expected: "Please specify the file name."},
		{line: "edit", expected: "Please specify the file name."},
		{line: "read", expected: "Please specify the file name."},
		{line: "dirf", expected: "Please specify the folder name."},
		{line: "rmtxt", expected: "Please specify the file name."},
		{line: "rmf", expected: "Please specify the folder name."},
		{line: "rnf", expected: "Please specify the folder names (old and new)."},
		{line: "rntxt", expected: "Please specify the file names (old and new)."},
		{line: "rnf a", expected: "Invalid folder rename command format."},
		{line: "rntxt a b c", expected: "Invalid file rename command format."},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			ts := newTestShell(t, Options{})
			out := ts.exec(t, tc.line)
			assert.Equal(t, tc.expected+"\n", out)
			assert.Equal(t, 1, ts.store.Len(), "no entry may be created")
		})
	}
}

func TestShell_Navigation(t *testing.T) {
	ts := newTestShell(t, Options{})

	out := ts.exec(t, "dirf ..")
	assert.Contains(t, out, "Already at the root directory.")
	assert.Equal(t, filesystem.Root, ts.Session().Cwd)

	out = ts.exec(t, "createf a", "dirf a")
	assert.Contains(t, out, "Changed current directory to: root/a")
	assert.Equal(t, filesystem.Path("root/a"), ts.Session().Cwd)

	out = ts.exec(t, "createf b", "dirf root/a/b")
	assert.Contains(t, out, "Changed current directory to: root/a/b")

	out = ts.exec(t, "dirf ..")
	assert.Contains(t, out, "Moved up one directory: root/a")

	out = ts.exec(t, "addtxt f", "dirf f", "dirf nope")
	assert.Contains(t, out, "Folder 'f' does not exist or is not a directory.")
	assert.Contains(t, out, "Folder 'nope' does not exist or is not a directory.")
	assert.Equal(t, filesystem.Path("root/a"), ts.Session().Cwd)

	out = ts.exec(t, "bttree")
	assert.Contains(t, out, "Returned to the root directory.")
	assert.Equal(t, filesystem.Root, ts.Session().Cwd)
}

func TestShell_List(t *testing.T) {
	ts := newTestShell(t, Options{})

	out := ts.exec(t, "dir")
	assert.Equal(t, "Current directory: root\nNo files or folders in this directory.\n", out)

	ts.exec(t, "createf b", "addtxt a", "createf ab", "addtxt b/inner")
	out = ts.exec(t, "dir")
	assert.Equal(t, "Current directory: root\n  a (File)\n  ab (Folder)\n  b (Folder)\n", out)
	assert.NotContains(t, out, "inner", "listing is not recursive")
}

func TestShell_RemoveFolder(t *testing.T) {
	ts := newTestShell(t, Options{})
	ts.exec(t, "createf a", "createf a/sub", "addtxt a/sub/f", "createf ab", "addtxt ab/keep")

	out := ts.exec(t, "rmf a")
	assert.Contains(t, out, "Folder 'a' and its contents removed successfully from memory.")

	for _, p := range []filesystem.Path{"root/a", "root/a/sub", "root/a/sub/f"} {
		_, err := ts.store.Stat(p)
		assert.ErrorIs(t, err, filesystem.ErrNotFound, p.String())
	}
	_, err := ts.store.Stat("root/ab/keep")
	assert.NoError(t, err, "sibling sharing a string prefix survives")

	out = ts.exec(t, "dir")
	assert.NotContains(t, out, "  a (Folder)")

	out = ts.exec(t, "rmf a", "rmf ab/keep", "rmf root")
	assert.Contains(t, out, "Folder 'a' does not exist in memory or is not a folder.")
	assert.Contains(t, out, "Folder 'ab/keep' does not exist in memory or is not a folder.")
	assert.Contains(t, out, "Folder 'root' cannot be removed.")
}

func TestShell_RemoveFolderHoldingCursor(t *testing.T) {
	ts := newTestShell(t, Options{})
	ts.exec(t, "createf a", "createf a/b", "dirf a", "dirf b")
	require.Equal(t, filesystem.Path("root/a/b"), ts.Session().Cwd)

	ts.exec(t, "rmf root/a")
	assert.Equal(t, filesystem.Root, ts.Session().Cwd)
}

func TestShell_RemoveFile(t *testing.T) {
	ts := newTestShell(t, Options{})
	ts.exec(t, "addtxt f", "createf d")

	out := ts.exec(t, "rmtxt f", "rmtxt f", "rmtxt d")
	assert.Contains(t, out, "Text file 'f' removed successfully from memory.")
	assert.Contains(t, out, "Text file 'f' does not exist in memory or is not a file.")
	assert.Contains(t, out, "Text file 'd' does not exist in memory or is not a file.")
}

func TestShell_RenameFolder(t *testing.T) {
	ts := newTestShell(t, Options{})
	ts.exec(t, "createf old", "createf old/sub", "addtxt old/sub/f", "addtxt old/g")
	require.NoError(t, ts.store.WriteFile("root/old/sub/f", "deep"))
	require.NoError(t, ts.store.WriteFile("root/old/g", "shallow"))

	out := ts.exec(t, "rnf old new")
	assert.Contains(t, out, "Folder 'old' renamed to 'new' successfully.")

	out = ts.exec(t, "dir")
	assert.Contains(t, out, "  new (Folder)")
	assert.NotContains(t, out, "  old (Folder)")

	for p, expected := range map[filesystem.Path]string{"root/new/sub/f": "deep", "root/new/g": "shallow"} {
		content, err := ts.store.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, expected, content)
	}

	ts.exec(t, "createf other")
	out = ts.exec(t, "rnf missing x", "rnf new other", "rnf new new/inside", "rnf root x")
	assert.Contains(t, out, "Folder 'missing' does not exist.")
	assert.Contains(t, out, "Folder 'other' already exists.")
	assert.Contains(t, out, "Folder 'new' cannot be moved into itself.")
	assert.Contains(t, out, "Folder 'root' cannot be renamed.")
}

func TestShell_RenameFolderHoldingCursor(t *testing.T) {
	ts := newTestShell(t, Options{})
	ts.exec(t, "createf a", "createf a/b", "dirf a", "dirf b", "rnf root/a root/z")
	assert.Equal(t, filesystem.Path("root/z/b"), ts.Session().Cwd)
}

func TestShell_RenameFile(t *testing.T) {
	ts := newTestShell(t, Options{Placeholder: placeholder})
	ts.exec(t, "addtxt a", "addtxt taken", "createf d")

	out := ts.exec(t, "rntxt a b", "read b")
	assert.Contains(t, out, "Text file 'a' renamed to 'b' successfully.")
	assert.Contains(t, out, "Content: "+placeholder)

	out = ts.exec(t, "rntxt a c", "rntxt b taken", "rntxt d e", "rntxt b b")
	assert.Contains(t, out, "Text file 'a' does not exist.")
	assert.Contains(t, out, "Text file 'taken' already exists.")
	assert.Contains(t, out, "Text file 'd' does not exist.")
	assert.Contains(t, out, "Text file 'b' already exists.")
}

func TestShell_StrictParents(t *testing.T) {
	t.Run("Strict", func(t *testing.T) {
		ts := newTestShell(t, Options{})
		out := ts.exec(t, "addtxt nowhere/f", "createf a/b")
		assert.Contains(t, out, "Parent folder 'root/nowhere' does not exist.")
		assert.Contains(t, out, "Parent folder 'root/a' does not exist.")
		assert.Equal(t, 1, ts.store.Len())
	})

	t.Run("Permissive", func(t *testing.T) {
		ts := newTestShell(t, Options{}, filesystem.WithStrictParents(false))
		out := ts.exec(t, "addtxt nowhere/f", "dir")
		assert.Contains(t, out, "Text file 'nowhere/f' created successfully in memory.")
		assert.Contains(t, out, "No files or folders in this directory.", "orphans are not listed under root")
	})
}

func TestShell_InvalidNames(t *testing.T) {
	ts := newTestShell(t, Options{})
	out := ts.exec(t, "createf a//b", "addtxt ..", "createf root")
	assert.Contains(t, out, "Invalid folder name 'a//b'.")
	assert.Contains(t, out, "Invalid file name '..'.")
	assert.Contains(t, out, "Invalid folder name 'root'.")
	assert.Equal(t, 1, ts.store.Len())
}

func TestShell_UnknownCommand(t *testing.T) {
	ts := newTestShell(t, Options{})
	out := ts.exec(t, "frobnicate now", "dir")
	assert.Contains(t, out, "Unknown command. Type 'help' for a list of commands.\n")
	assert.Contains(t, out, "Current directory: root", "the session continues")
}

func TestShell_Help(t *testing.T) {
	ts := newTestShell(t, Options{})
	out := ts.exec(t, "HELP")
	assert.True(t, strings.HasPrefix(out, "Available commands:\n"))
	for _, name := range []string{"createf", "addtxt", "edit", "read", "dir", "dirf", "bttree", "rmtxt", "rmf", "rnf", "rntxt", "clear", "export", "tree"} {
		assert.Contains(t, out, " "+name, name)
	}
	assert.Contains(t, out, "rnf - Rename a folder (Usage: rnf oldFolder newFolder)")
}

func TestShell_Echo(t *testing.T) {
	ts := newTestShell(t, Options{})
	assert.Equal(t, "You typed: hello there\n", ts.exec(t, "echo hello there"))

	ts.term.AddLines("typed later")
	assert.Equal(t, "Enter text to echo: You typed: typed later\n", ts.exec(t, "echo"))
}

func TestShell_ClearRebootAndSleep(t *testing.T) {
	ts := newTestShell(t, Options{})
	ts.exec(t, "createf a", "dirf a", "clear")
	assert.Equal(t, 1, ts.term.Clears)

	out := ts.exec(t, "reboot")
	assert.Contains(t, out, "Rebooting...")
	assert.Contains(t, out, welcomeLine)
	assert.Equal(t, 1, ts.store.Len())
	assert.Equal(t, filesystem.Root, ts.Session().Cwd)

	ts.term.AddKeys(console.Rune('x'), console.Special(console.KeyEnter), console.Special(console.KeyEscape))
	out = ts.exec(t, "sleepmode")
	assert.Contains(t, out, "Sleeping... (Press ESC to exit Sleep mode.)")
	assert.Contains(t, out, "Exited sleep mode.")
	_, keys := ts.term.Pending()
	assert.Zero(t, keys)
}

func TestShell_Run(t *testing.T) {
	t.Run("EndsAtEndOfInput", func(t *testing.T) {
		ts := newTestShell(t, Options{Banner: true})
		ts.term.AddLines("createf docs", "", "dirf docs")

		require.NoError(t, ts.Run())
		out := ts.out.String()
		assert.True(t, strings.HasPrefix(out, welcomeLine+"\n"+hintLine+"\n"))
		assert.Contains(t, out, "root@TLSPOS> ")
		assert.Contains(t, out, "root/docs@TLSPOS> ")
	})

	t.Run("EndsOnShutdown", func(t *testing.T) {
		ts := newTestShell(t, Options{})
		ts.term.AddLines("exit", "createf never")

		require.NoError(t, ts.Run())
		assert.Contains(t, ts.out.String(), "Shutting down...")
		lines, _ := ts.term.Pending()
		assert.Equal(t, 1, lines)
		assert.Equal(t, 1, ts.store.Len())
	})

	t.Run("TemplatedPrompt", func(t *testing.T) {
		prompt, err := template.NewExecutor("prompt", "[{{.Version}}] {{.Cwd}} $ ")
		require.NoError(t, err)
		ts := newTestShell(t, Options{Prompt: prompt, Version: "1.2.3"})
		ts.term.AddLines("dir")

		require.NoError(t, ts.Run())
		assert.Contains(t, ts.out.String(), "[1.2.3] root $ ")
	})

	t.Run("BrokenPromptFallsBack", func(t *testing.T) {
		prompt, err := template.NewExecutor("prompt", "{{.Missing}}")
		require.NoError(t, err)
		ts := newTestShell(t, Options{Prompt: prompt})
		var logs bytes.Buffer
		ts.logger = slog.New(slog.NewTextHandler(&logs, nil))

		require.NoError(t, ts.Run())
		assert.Contains(t, ts.out.String(), "root@TLSPOS> ")
		assert.Contains(t, logs.String(), "template=prompt")
	})

	t.Run("EditorInputEndsSession", func(t *testing.T) {
		ts := newTestShell(t, Options{})
		ts.term.AddLines("addtxt f", "edit f", "dir")

		require.NoError(t, ts.Run())
		lines, _ := ts.term.Pending()
		assert.Equal(t, 1, lines, "the line after the aborted edit is never read")
	})
}

func TestShell_ExecuteReturnsExit(t *testing.T) {
	ts := newTestShell(t, Options{})
	err := ts.Execute("SHUTDOWN")
	assert.True(t, errors.Is(err, ErrExit))
}

func TestShell_Configure(t *testing.T) {
	ts := newTestShell(t, Options{Placeholder: "old", Banner: true})
	ts.Configure(Options{Placeholder: "new", ExportFormat: "toml"})

	ts.exec(t, "addtxt f")
	content, err := ts.store.ReadFile("root/f")
	require.NoError(t, err)
	assert.Equal(t, "new", content)
	assert.True(t, ts.opts.Banner, "banner setting survives reconfiguration")
}
