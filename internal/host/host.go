// Package host connects the picker to whatever receives the chosen
// emoji: the editing buffer, the system clipboard, or both.
package host

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Inserter receives a committed emoji glyph.
type Inserter interface {
	Insert(glyph string) error
}

// InserterFunc adapts a function to the Inserter interface.
type InserterFunc func(glyph string) error

func (f InserterFunc) Insert(glyph string) error {
	return f(glyph)
}

// Clipboard copies committed glyphs to the system clipboard.
type Clipboard struct{}

func (Clipboard) Insert(glyph string) error {
	if err := clipboard.WriteAll(glyph); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Multi fans a commit out to several inserters. All of them run; the
// first error is returned.
type Multi []Inserter

func (m Multi) Insert(glyph string) error {
	var first error
	for _, ins := range m {
		if err := ins.Insert(glyph); err != nil && first == nil {
			first = err
		}
	}
	return first
}
