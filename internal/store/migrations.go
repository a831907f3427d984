package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per saved letter
		`CREATE TABLE IF NOT EXISTS glyphs (
			letter TEXT PRIMARY KEY CHECK(length(letter) = 1),
			revision TEXT NOT NULL,
			fill TEXT NOT NULL DEFAULT '',
			stroke TEXT NOT NULL DEFAULT '',
			fill_none INTEGER NOT NULL DEFAULT 0,
			stroke_none INTEGER NOT NULL DEFAULT 0,
			mode TEXT NOT NULL CHECK(mode IN ('none', 'bounce', 'beat', 'appear')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Dots of each saved stroke, in stroke order
		`CREATE TABLE IF NOT EXISTS glyph_dots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			letter TEXT NOT NULL REFERENCES glyphs(letter) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			r REAL NOT NULL,
			fill TEXT NOT NULL DEFAULT '',
			stroke TEXT NOT NULL DEFAULT '',
			stroke_width REAL NOT NULL DEFAULT 0,
			phase REAL NOT NULL DEFAULT 0
		)`,

		// Application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_glyph_dots_letter ON glyph_dots(letter, seq)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
