package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Glyph is a saved letter stroke stored in the database. Revision changes
// on every save.
type Glyph struct {
	Letter    string
	Revision  string
	Style     gesture.Style
	Mode      gesture.Mode
	Dots      []gesture.Dot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GlyphRepository provides CRUD operations for saved glyphs.
type GlyphRepository struct {
	db *sql.DB
}

// Glyphs returns the glyph repository for this store.
func (s *Store) Glyphs() *GlyphRepository {
	return &GlyphRepository{db: s.db}
}

// Save inserts or replaces a letter's saved stroke in a single
// transaction. It assigns a fresh revision and keeps the original
// creation time when the letter was saved before.
func (r *GlyphRepository) Save(g *Glyph) error {
	if g.Letter == "" {
		return fmt.Errorf("save glyph: letter is required")
	}
	if !g.Mode.Valid() {
		return fmt.Errorf("save glyph %s: unknown mode %q", g.Letter, g.Mode)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	createdAt := now
	err = tx.QueryRow(`SELECT created_at FROM glyphs WHERE letter = ?`, g.Letter).Scan(&createdAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	revision := uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO glyphs (letter, revision, fill, stroke, fill_none, stroke_none, mode, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(letter) DO UPDATE SET
			revision = excluded.revision,
			fill = excluded.fill,
			stroke = excluded.stroke,
			fill_none = excluded.fill_none,
			stroke_none = excluded.stroke_none,
			mode = excluded.mode,
			updated_at = excluded.updated_at`,
		g.Letter, revision, g.Style.Fill, g.Style.Stroke, g.Style.FillNone, g.Style.StrokeNone,
		string(g.Mode), createdAt, now,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM glyph_dots WHERE letter = ?`, g.Letter); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO glyph_dots (letter, seq, x, y, r, fill, stroke, stroke_width, phase)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range g.Dots {
		if _, err := stmt.Exec(g.Letter, i, d.X, d.Y, d.R, d.Fill, d.Stroke, d.StrokeWidth, d.Phase); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	g.Revision = revision
	g.CreatedAt = createdAt
	g.UpdatedAt = now
	return nil
}

// Get retrieves a saved glyph and its dots by letter.
func (r *GlyphRepository) Get(letter string) (*Glyph, error) {
	g := &Glyph{}
	var mode string

	err := r.db.QueryRow(
		`SELECT letter, revision, fill, stroke, fill_none, stroke_none, mode, created_at, updated_at
		 FROM glyphs WHERE letter = ?`,
		letter,
	).Scan(&g.Letter, &g.Revision, &g.Style.Fill, &g.Style.Stroke, &g.Style.FillNone, &g.Style.StrokeNone,
		&mode, &g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	g.Mode = gesture.Mode(mode)

	if g.Dots, err = r.dots(letter); err != nil {
		return nil, err
	}
	return g, nil
}

// List retrieves every saved glyph in alphabet order.
func (r *GlyphRepository) List() ([]*Glyph, error) {
	rows, err := r.db.Query(
		`SELECT letter, revision, fill, stroke, fill_none, stroke_none, mode, created_at, updated_at
		 FROM glyphs ORDER BY letter`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var glyphs []*Glyph
	for rows.Next() {
		g := &Glyph{}
		var mode string
		err := rows.Scan(&g.Letter, &g.Revision, &g.Style.Fill, &g.Style.Stroke, &g.Style.FillNone,
			&g.Style.StrokeNone, &mode, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		g.Mode = gesture.Mode(mode)
		glyphs = append(glyphs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, g := range glyphs {
		if g.Dots, err = r.dots(g.Letter); err != nil {
			return nil, err
		}
	}
	return glyphs, nil
}

// Delete removes a saved glyph and its dots.
func (r *GlyphRepository) Delete(letter string) error {
	result, err := r.db.Exec(`DELETE FROM glyphs WHERE letter = ?`, letter)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *GlyphRepository) dots(letter string) ([]gesture.Dot, error) {
	rows, err := r.db.Query(
		`SELECT seq, x, y, r, fill, stroke, stroke_width, phase
		 FROM glyph_dots WHERE letter = ? ORDER BY seq`,
		letter,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dots []gesture.Dot
	for rows.Next() {
		var d gesture.Dot
		if err := rows.Scan(&d.Order, &d.X, &d.Y, &d.R, &d.Fill, &d.Stroke, &d.StrokeWidth, &d.Phase); err != nil {
			return nil, err
		}
		dots = append(dots, d)
	}
	return dots, rows.Err()
}
