package catalog

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed all:templates
var templateFS embed.FS

const templatesDir = "templates"

// Template is a file blueprint: a slash-separated destination path relative to
// the project root and a text/template body.
type Template struct {
	Path       string
	Body       string
	Executable bool
}

type entry struct {
	path       string
	executable bool
}

// entries fixes the catalog order. Output is reproducible because rendering
// and materialization both follow it.
var entries = []entry{
	{path: "contract/.cargo/config.toml"},
	{path: "contract/Cargo.toml"},
	{path: "contract/src/main.rs"},
	{path: "Makefile"},
	{path: "rust-toolchain"},
	{path: "tests/Cargo.toml"},
	{path: "tests/src/integration_tests.rs"},
	{path: ".travis.yml"},
}

// Templates returns the catalog in its stable order.
func Templates() ([]Template, error) {
	return load(templateFS)
}

func load(fsys fs.FS) ([]Template, error) {
	out := make([]Template, 0, len(entries))
	for _, e := range entries {
		name := templatesDir + "/" + e.path + ".tmpl"
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
		out = append(out, Template{
			Path:       e.path,
			Body:       string(body),
			Executable: e.executable,
		})
	}
	return out, nil
}

// Paths returns the destination paths of every catalog entry, in order.
func Paths() []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths
}
