package shell

import (
	"errors"
	"strings"

	"github.com/stackvity/memsh/internal/console"
	"github.com/stackvity/memsh/internal/filesystem"
)

type handlerFunc func(sh *Shell, args string) error

// command is one dispatchable keyword and its help entry.
type command struct {
	names   []string // first is shown in help, the rest are aliases
	usage   string
	summary string
	run     handlerFunc
}

func builtinCommands() []*command {
	return []*command{
		{names: []string{"help"}, summary: "Show this help message", run: cmdHelp},
		{names: []string{"echo"}, usage: "echo [text]", summary: "Repeat your input", run: cmdEcho},
		{names: []string{"calc"}, usage: "calc [a op b]", summary: "Simple calculator", run: cmdCalc},
		{names: []string{"createf"}, usage: "createf folder", summary: "Create a folder in memory", run: cmdCreateFolder},
		{names: []string{"addtxt"}, usage: "addtxt file", summary: "Create a text file in memory", run: cmdCreateFile},
		{names: []string{"edit"}, usage: "edit file", summary: "Edit a text file in memory", run: cmdEdit},
		{names: []string{"read"}, usage: "read file", summary: "Read a text file from memory", run: cmdRead},
		{names: []string{"dir"}, summary: "List files in memory", run: cmdList},
		{names: []string{"dirf"}, usage: "dirf folder|..", summary: "Change current directory", run: cmdEnter},
		{names: []string{"bttree"}, summary: "Return to the root directory", run: cmdToRoot},
		{names: []string{"tree"}, summary: "Show everything below the current directory", run: cmdTree},
		{names: []string{"export"}, usage: "export [yaml|toml]", summary: "Print the current directory as YAML or TOML", run: cmdExport},
		{names: []string{"shutdown", "exit"}, summary: "Shutdown the system", run: cmdShutdown},
		{names: []string{"reboot"}, summary: "Reboot the system", run: cmdReboot},
		{names: []string{"sleepmode"}, summary: "Enter sleep mode", run: cmdSleep},
		{names: []string{"clear"}, summary: "Clear the screen", run: cmdClear},
		{names: []string{"rmtxt"}, usage: "rmtxt file", summary: "Remove a text file", run: cmdRemoveFile},
		{names: []string{"rmf"}, usage: "rmf folder", summary: "Remove a folder and its contents", run: cmdRemoveFolder},
		{names: []string{"rnf"}, usage: "rnf oldFolder newFolder", summary: "Rename a folder", run: cmdRenameFolder},
		{names: []string{"rntxt"}, usage: "rntxt oldFile newFile", summary: "Rename a text file", run: cmdRenameFile},
	}
}

func cmdHelp(sh *Shell, _ string) error {
	sh.println("Available commands:")
	for _, c := range sh.commands {
		line := " " + strings.Join(c.names, ", ") + " - " + c.summary
		if c.usage != "" {
			line += " (Usage: " + c.usage + ")"
		}
		sh.println(line)
	}
	return nil
}

func cmdEcho(sh *Shell, args string) error {
	text := args
	if text == "" {
		var err error
		if text, err = sh.ask("Enter text to echo: "); err != nil {
			return err
		}
	}
	sh.printf("You typed: %s\n", text)
	return nil
}

func cmdCreateFolder(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the folder name.")
	}
	if err := sh.session.FS.Mkdir(sh.session.Resolve(args)); err != nil {
		return storeNotice(err, args, map[Kind]string{
			KindAlreadyExists:     "Folder '%s' already exists in memory.",
			KindMalformedArgument: "Invalid folder name '%s'.",
		})
	}
	sh.success("Folder '%s' created successfully in memory.", args)
	return nil
}

func cmdCreateFile(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the file name.")
	}
	if err := sh.session.FS.Create(sh.session.Resolve(args), sh.opts.Placeholder); err != nil {
		return storeNotice(err, args, map[Kind]string{
			KindAlreadyExists:     "Text file '%s' already exists in memory.",
			KindMalformedArgument: "Invalid file name '%s'.",
		})
	}
	sh.success("Text file '%s' created successfully in memory.", args)
	return nil
}

func cmdEdit(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the file name.")
	}
	p, err := sh.existingFile(args)
	if err != nil {
		return err
	}
	before, err := sh.session.FS.ReadFile(p)
	if err != nil {
		return err
	}
	if err := sh.editor.Edit(p, "Editing file: "+args); err != nil {
		return err
	}
	after, err := sh.session.FS.ReadFile(p)
	if err != nil {
		return err
	}
	if after != before {
		sh.success("File '%s' updated successfully in memory.", args)
	}
	return nil
}

func cmdRead(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the file name.")
	}
	p, err := sh.existingFile(args)
	if err != nil {
		return err
	}
	content, err := sh.session.FS.ReadFile(p)
	if err != nil {
		return err
	}
	sh.printf("Reading file: %s\n", args)
	sh.printf("Content: %s\n", content)
	return nil
}

func cmdList(sh *Shell, _ string) error {
	cwd := sh.session.Cwd
	entries, err := sh.session.FS.ReadDir(cwd)
	if err != nil {
		return err
	}
	sh.printf("Current directory: %s\n", cwd)
	if len(entries) == 0 {
		sh.println("No files or folders in this directory.")
		return nil
	}
	for _, e := range entries {
		kind := "(File)"
		if e.IsDir() {
			kind = "(Folder)"
		}
		sh.printf("  %s %s\n", e.Name(), kind)
	}
	return nil
}

func cmdEnter(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the folder name.")
	}
	if args == ParentName {
		if !sh.session.Up() {
			sh.println("Already at the root directory.")
			return nil
		}
		sh.success("Moved up one directory: %s", sh.session.Cwd)
		return nil
	}
	if err := sh.session.Enter(args); err != nil {
		return storeNotice(err, args, map[Kind]string{
			KindNotFound:  "Folder '%s' does not exist or is not a directory.",
			KindWrongKind: "Folder '%s' does not exist or is not a directory.",
		})
	}
	sh.success("Changed current directory to: %s", sh.session.Cwd)
	return nil
}

func cmdToRoot(sh *Shell, _ string) error {
	sh.session.ToRoot()
	sh.success("Returned to the root directory.")
	return nil
}

func cmdRemoveFile(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the file name.")
	}
	if err := sh.session.FS.Remove(sh.session.Resolve(args)); err != nil {
		return storeNotice(err, args, map[Kind]string{
			KindNotFound:  "Text file '%s' does not exist in memory or is not a file.",
			KindWrongKind: "Text file '%s' does not exist in memory or is not a file.",
		})
	}
	sh.success("Text file '%s' removed successfully from memory.", args)
	return nil
}

func cmdRemoveFolder(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the folder name.")
	}
	p := sh.session.Resolve(args)
	if _, err := sh.session.FS.RemoveAll(p); err != nil {
		return storeNotice(err, args, map[Kind]string{
			KindNotFound:          "Folder '%s' does not exist in memory or is not a folder.",
			KindWrongKind:         "Folder '%s' does not exist in memory or is not a folder.",
			KindMalformedArgument: "Folder '%s' cannot be removed.",
		})
	}
	if sh.session.Cwd.Within(p) {
		sh.session.Cwd = p.Parent()
	}
	sh.success("Folder '%s' and its contents removed successfully from memory.", args)
	return nil
}

func cmdRenameFolder(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the folder names (old and new).")
	}
	oldName, newName, ok := splitPair(args)
	if !ok {
		return noticef(KindMalformedArgument, "Invalid folder rename command format.")
	}
	oldPath, newPath := sh.session.Resolve(oldName), sh.session.Resolve(newName)
	if err := sh.session.FS.RenameDir(oldPath, newPath); err != nil {
		if errors.Is(err, filesystem.ErrInvalidPath) && !oldPath.IsRoot() && newPath.Within(oldPath) && newPath != oldPath {
			return noticef(KindMalformedArgument, "Folder '%s' cannot be moved into itself.", oldName)
		}
		return renameNotice(err, "Folder", oldName, newName, oldPath)
	}
	if sh.session.Cwd.Within(oldPath) {
		sh.session.Cwd = sh.session.Cwd.Rebase(oldPath, newPath)
	}
	sh.success("Folder '%s' renamed to '%s' successfully.", oldName, newName)
	return nil
}

func cmdRenameFile(sh *Shell, args string) error {
	if args == "" {
		return noticef(KindMalformedArgument, "Please specify the file names (old and new).")
	}
	oldName, newName, ok := splitPair(args)
	if !ok {
		return noticef(KindMalformedArgument, "Invalid file rename command format.")
	}
	oldPath := sh.session.Resolve(oldName)
	if err := sh.session.FS.Rename(oldPath, sh.session.Resolve(newName)); err != nil {
		return renameNotice(err, "Text file", oldName, newName, oldPath)
	}
	sh.success("Text file '%s' renamed to '%s' successfully.", oldName, newName)
	return nil
}

func cmdClear(sh *Shell, _ string) error {
	sh.term.Clear()
	return nil
}

func cmdShutdown(sh *Shell, _ string) error {
	sh.println("Shutting down...")
	return ErrExit
}

func cmdReboot(sh *Shell, _ string) error {
	sh.println("Rebooting...")
	sh.session.FS.Reset()
	sh.session.ToRoot()
	sh.term.Clear()
	sh.println(welcomeLine)
	sh.println(hintLine)
	return nil
}

func cmdSleep(sh *Shell, _ string) error {
	sh.term.Clear()
	sh.println("Sleeping... (Press ESC to exit Sleep mode.)")
	for {
		k, err := sh.term.ReadKey()
		if err != nil {
			return err
		}
		if k.Code == console.KeyEscape {
			break
		}
	}
	sh.term.Clear()
	sh.println("Exited sleep mode.")
	return nil
}

// existingFile resolves name and requires it to be a file.
func (sh *Shell) existingFile(name string) (filesystem.Path, error) {
	p := sh.session.Resolve(name)
	e, err := sh.session.FS.Stat(p)
	if err != nil {
		return "", noticef(KindNotFound, "File '%s' does not exist in memory or is a folder.", name)
	}
	if e.IsDir() {
		return "", noticef(KindWrongKind, "File '%s' does not exist in memory or is a folder.", name)
	}
	return p, nil
}

// splitPair splits a two-name argument. Exactly two whitespace-separated
// tokens are accepted.
func splitPair(args string) (string, string, bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// storeNotice converts a store error into a notice. messages holds a format
// with one %s verb, filled with name, for each kind the caller words itself.
func storeNotice(err error, name string, messages map[Kind]string) error {
	var pe *filesystem.PathError
	if errors.Is(err, filesystem.ErrParentNotFound) && errors.As(err, &pe) {
		return noticef(KindNotFound, "Parent folder '%s' does not exist.", pe.Path)
	}
	kind := kindOf(err)
	if format, ok := messages[kind]; ok {
		return noticef(kind, format, name)
	}
	if kind == KindGeneric {
		return err
	}
	return &Notice{Kind: kind, Msg: err.Error()}
}

func renameNotice(err error, noun, oldName, newName string, oldPath filesystem.Path) error {
	var pe *filesystem.PathError
	if errors.As(err, &pe) && pe.Path == oldPath &&
		!errors.Is(err, filesystem.ErrParentNotFound) && !errors.Is(err, filesystem.ErrAlreadyExists) {
		return storeNotice(err, oldName, map[Kind]string{
			KindNotFound:          noun + " '%s' does not exist.",
			KindWrongKind:         noun + " '%s' does not exist.",
			KindMalformedArgument: noun + " '%s' cannot be renamed.",
		})
	}
	return storeNotice(err, newName, map[Kind]string{
		KindAlreadyExists:     noun + " '%s' already exists.",
		KindMalformedArgument: "Invalid name '%s'.",
	})
}
