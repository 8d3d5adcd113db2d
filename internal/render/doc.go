// Package render turns catalog templates into file contents. Every value a
// template may reference is a catalog.Slot; a template that names a slot
// outside the closed set, or a slot with no value, fails to render instead of
// emitting placeholder text. Rendering reads no clock and no randomness, so
// the same inputs always produce the same bytes.
package render
