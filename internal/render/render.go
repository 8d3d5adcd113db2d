package render

import (
	"bytes"
	"fmt"

	"github.com/casperkit/casperkit/internal/catalog"
)

// File is a rendered template, held in memory until materialization.
type File struct {
	Path       string
	Content    []byte
	Executable bool
}

// Render renders every template, in order.
func Render(templates []catalog.Template, values Values) ([]File, error) {
	files := make([]File, 0, len(templates))
	for _, t := range templates {
		f, err := RenderOne(t, values)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// RenderOne checks t's slots against the closed set and against values, then
// executes it.
func RenderOne(t catalog.Template, values Values) (File, error) {
	slots, err := catalog.Slots(t)
	if err != nil {
		return File{}, err
	}
	for _, s := range slots {
		if !catalog.IsKnown(s) {
			return File{}, fmt.Errorf("%s: %w %q", t.Path, ErrUnknownSlot, s)
		}
		if _, ok := values[s]; !ok {
			return File{}, fmt.Errorf("%s: %w %s", t.Path, ErrMissingValue, s)
		}
	}

	tmpl, err := t.Parse()
	if err != nil {
		return File{}, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values.data()); err != nil {
		return File{}, fmt.Errorf("executing template %s: %w", t.Path, err)
	}
	return File{Path: t.Path, Content: buf.Bytes(), Executable: t.Executable}, nil
}
