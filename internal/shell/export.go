package shell

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/stackvity/memsh/internal/config"
	"github.com/stackvity/memsh/internal/filesystem"
)

// cmdExport prints the subtree under the cursor. Folders become mappings and
// files become strings, keyed by the cursor folder's name.
func cmdExport(sh *Shell, args string) error {
	format := strings.ToLower(args)
	if format == "" {
		format = sh.opts.ExportFormat
	}

	tree, err := snapshot(sh.session.FS, sh.session.Cwd)
	if err != nil {
		return err
	}
	doc := map[string]any{sh.session.Cwd.Base(): tree}

	out, err := encode(doc, format)
	if err != nil {
		return err
	}
	sh.println(strings.TrimRight(out, "\n"))
	return nil
}

// snapshot builds a nested map of everything beneath folder p in one walk.
// Walk visits a folder before anything inside it.
func snapshot(fs filesystem.FileSystem, p filesystem.Path) (map[string]any, error) {
	tree := map[string]any{}
	folders := map[filesystem.Path]map[string]any{p: tree}
	err := fs.Walk(p, func(e filesystem.Entry) error {
		parent, ok := folders[e.Path.Parent()]
		if !ok {
			return fmt.Errorf("walk reached %s before its folder", e.Path)
		}
		if !e.IsDir() {
			parent[e.Name()] = e.Content
			return nil
		}
		node := map[string]any{}
		folders[e.Path] = node
		parent[e.Name()] = node
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func encode(doc map[string]any, format string) (string, error) {
	switch format {
	case config.FormatYAML:
		b, err := yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return string(b), nil
	case config.FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return "", fmt.Errorf("failed to marshal toml: %w", err)
		}
		return buf.String(), nil
	default:
		return "", noticef(KindMalformedArgument, "Unknown export format '%s'. Use '%s' or '%s'.", format, config.FormatYAML, config.FormatTOML)
	}
}

// cmdTree prints the subtree under the cursor, folders before files.
func cmdTree(sh *Shell, _ string) error {
	sh.println(sh.session.Cwd.String())
	return sh.printTree(sh.session.Cwd, 1)
}

func (sh *Shell) printTree(p filesystem.Path, depth int) error {
	entries, err := sh.session.FS.ReadDir(p)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		if e.IsDir() {
			sh.printf("%s%s/\n", indent, e.Name())
			if err := sh.printTree(e.Path, depth+1); err != nil {
				return err
			}
		}
	}
	for _, e := range entries {
		if !e.IsDir() {
			sh.printf("%s%s\n", indent, e.Name())
		}
	}
	return nil
}
