// Package glyph keeps the 26 letters being drawn: the live stroke of the
// selected letter, each letter's saved stroke, style and animation mode.
package glyph

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ayusman/bubbletype/internal/gesture"
)

// Letters is the drawable alphabet in grid order.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	// ErrInvalidLetter is returned for anything outside A-Z.
	ErrInvalidLetter = errors.New("invalid letter")
	// ErrInvalidMode is returned for an unknown animation mode.
	ErrInvalidMode = errors.New("invalid animation mode")
	// ErrInvalidStyle is returned for a style with unparseable colors.
	ErrInvalidStyle = errors.New("invalid style")
	// ErrEmptyStroke is returned when saving a letter with no dots.
	ErrEmptyStroke = errors.New("stroke is empty")
	// ErrNotSaved is returned when a letter has no saved stroke.
	ErrNotSaved = errors.New("letter has no saved stroke")
)

// ParseLetter returns the alphabet index of a single-letter string.
func ParseLetter(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	i := strings.IndexByte(Letters, s[0])
	if i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	return i, nil
}

// Glyph is a snapshot of one letter.
type Glyph struct {
	Letter      string        `json:"letter" msgpack:"letter"`
	Dots        []gesture.Dot `json:"dots" msgpack:"dots"`
	Style       gesture.Style `json:"style" msgpack:"style"`
	Mode        gesture.Mode  `json:"mode" msgpack:"mode"`
	AppearStart uint64        `json:"appear_start" msgpack:"appear_start"`
}

// Summary describes a letter for listings.
type Summary struct {
	Letter   string        `json:"letter"`
	Selected bool          `json:"selected"`
	Saved    bool          `json:"saved"`
	DotCount int           `json:"dot_count"`
	Style    gesture.Style `json:"style"`
	Mode     gesture.Mode  `json:"mode"`
}

type letterState struct {
	saved       []gesture.Dot
	style       gesture.Style
	mode        gesture.Mode
	appearStart uint64
}

// Book is the set of letters plus the live stroke of the selected one.
// It implements gesture.Target for the selected letter and is safe for
// concurrent use.
type Book struct {
	mu       sync.RWMutex
	letters  [len(Letters)]letterState
	selected int
	current  []gesture.Dot
	frame    uint64
}

// NewBook creates a book with every letter empty, default-styled and
// unanimated, and "A" selected.
func NewBook() *Book {
	b := &Book{}
	for i := range b.letters {
		b.letters[i] = letterState{style: gesture.DefaultStyle(), mode: gesture.ModeNone}
	}
	return b
}

var _ gesture.Target = (*Book)(nil)

// Style returns the selected letter's brush style.
func (b *Book) Style() gesture.Style {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.letters[b.selected].style
}

// Mode returns the selected letter's animation mode.
func (b *Book) Mode() gesture.Mode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.letters[b.selected].mode
}

// Len returns the number of dots in the live stroke.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.current)
}

// Append adds dots to the live stroke.
func (b *Book) Append(dots ...gesture.Dot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = append(b.current, dots...)
}

// Clear empties the live stroke. The saved copy is kept.
func (b *Book) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}

// RestartAppear restarts the selected letter's appear animation.
func (b *Book) RestartAppear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.letters[b.selected].appearStart = b.frame
}

// Tick advances the animation frame counter and returns the new value.
func (b *Book) Tick() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame++
	return b.frame
}

// Frame returns the animation frame counter.
func (b *Book) Frame() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame
}

// Selected returns the selected letter.
func (b *Book) Selected() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Letters[b.selected : b.selected+1]
}

// Select makes letter the drawing target. The live stroke is replaced by the
// letter's saved stroke, if any, restyled to the letter's style. The caller
// is responsible for resetting the gesture session.
func (b *Book) Select(letter string) error {
	i, err := ParseLetter(letter)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.selected = i
	b.current = nil
	st := &b.letters[i]
	st.appearStart = b.frame
	if len(st.saved) > 0 {
		b.current = cloneDots(st.saved)
		st.style.Apply(b.current)
		st.saved = cloneDots(b.current)
	}
	return nil
}

// Redraw discards both the live and the saved stroke of the selected letter.
func (b *Book) Redraw() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = nil
	st := &b.letters[b.selected]
	st.saved = nil
	st.appearStart = b.frame
}

// Save snapshots the live stroke as the selected letter's saved stroke and
// returns the saved glyph.
func (b *Book) Save() (Glyph, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.current) == 0 {
		return Glyph{}, fmt.Errorf("save %s: %w", Letters[b.selected:b.selected+1], ErrEmptyStroke)
	}
	st := &b.letters[b.selected]
	st.saved = cloneDots(b.current)
	return b.snapshot(b.selected, st.saved), nil
}

// SetStyle sets the selected letter's style and restyles its live stroke,
// and its saved stroke when one exists. It reports whether the saved stroke
// changed.
func (b *Book) SetStyle(style gesture.Style) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := &b.letters[b.selected]
	st.style = style
	style.Apply(b.current)
	if len(st.saved) > 0 {
		st.saved = cloneDots(b.current)
		return true
	}
	return false
}

// SetMode sets the selected letter's animation mode.
func (b *Book) SetMode(mode gesture.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st := &b.letters[b.selected]
	st.mode = mode
	st.appearStart = b.frame
	return nil
}

// Current returns a snapshot of the selected letter with its live stroke.
func (b *Book) Current() Glyph {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot(b.selected, b.current)
}

// Saved returns a snapshot of a letter's saved stroke.
func (b *Book) Saved(letter string) (Glyph, error) {
	i, err := ParseLetter(letter)
	if err != nil {
		return Glyph{}, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	st := b.letters[i]
	if len(st.saved) == 0 {
		return Glyph{}, fmt.Errorf("%s: %w", Letters[i:i+1], ErrNotSaved)
	}
	return b.snapshot(i, st.saved), nil
}

// AllSaved returns every letter that has a saved stroke, in alphabet order.
func (b *Book) AllSaved() []Glyph {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Glyph
	for i, st := range b.letters {
		if len(st.saved) > 0 {
			out = append(out, b.snapshot(i, st.saved))
		}
	}
	return out
}

// Restore loads a previously persisted glyph as a letter's saved stroke,
// style and mode. The live stroke is untouched.
func (b *Book) Restore(g Glyph) error {
	i, err := ParseLetter(g.Letter)
	if err != nil {
		return err
	}
	if !g.Mode.Valid() {
		return fmt.Errorf("restore %s: %w: %q", g.Letter, ErrInvalidMode, g.Mode)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.letters[i].saved = cloneDots(g.Dots)
	b.letters[i].style = g.Style
	b.letters[i].mode = g.Mode
	return nil
}

// List summarizes all letters.
func (b *Book) List() []Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Summary, len(Letters))
	for i, st := range b.letters {
		out[i] = Summary{
			Letter:   Letters[i : i+1],
			Selected: i == b.selected,
			Saved:    len(st.saved) > 0,
			DotCount: len(st.saved),
			Style:    st.style,
			Mode:     st.mode,
		}
	}
	return out
}

func (b *Book) snapshot(i int, dots []gesture.Dot) Glyph {
	st := b.letters[i]
	return Glyph{
		Letter:      Letters[i : i+1],
		Dots:        cloneDots(dots),
		Style:       st.style,
		Mode:        st.mode,
		AppearStart: st.appearStart,
	}
}

func cloneDots(dots []gesture.Dot) []gesture.Dot {
	if len(dots) == 0 {
		return nil
	}
	out := make([]gesture.Dot, len(dots))
	copy(out, dots)
	return out
}
