package store

// CoreMigrations creates the document/extract/learning-item tables:
// the durable record of every schedulable entity.
func CoreMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			file_path         TEXT NOT NULL,
			file_type         TEXT NOT NULL,
			content           TEXT,
			content_hash      TEXT,
			total_pages       INTEGER,
			current_page      INTEGER,
			category          TEXT,
			tags              TEXT NOT NULL DEFAULT '[]',
			priority_rating   INTEGER NOT NULL DEFAULT 0,
			priority_slider   INTEGER NOT NULL DEFAULT 0,
			meta_author       TEXT NOT NULL DEFAULT '',
			meta_source_url   TEXT NOT NULL DEFAULT '',
			meta_language     TEXT NOT NULL DEFAULT '',
			meta_word_count   INTEGER NOT NULL DEFAULT 0,
			meta_imported_via TEXT NOT NULL DEFAULT '',
			next_reading_date TEXT,
			stability         REAL,
			difficulty        REAL,
			reps              INTEGER NOT NULL DEFAULT 0,
			total_time_spent  INTEGER NOT NULL DEFAULT 0,
			consecutive_count INTEGER NOT NULL DEFAULT 0,
			is_archived       INTEGER NOT NULL DEFAULT 0,
			is_favorite       INTEGER NOT NULL DEFAULT 0,
			date_created      TEXT NOT NULL,
			date_modified     TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_content_hash
			ON documents(content_hash) WHERE content_hash IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_documents_archived ON documents(is_archived)`,

		`CREATE TABLE IF NOT EXISTS extracts (
			id                    TEXT PRIMARY KEY,
			document_id           TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			content               TEXT NOT NULL,
			html_content          TEXT,
			highlight_color       TEXT,
			notes                 TEXT,
			page_number           INTEGER,
			page_title            TEXT,
			category              TEXT,
			tags                  TEXT NOT NULL DEFAULT '[]',
			disclosure_level      INTEGER NOT NULL DEFAULT 0,
			max_disclosure_level  INTEGER NOT NULL DEFAULT 0,
			memory_state_stability  REAL,
			memory_state_difficulty REAL,
			next_review_date      TEXT,
			last_review_date      TEXT,
			review_count          INTEGER NOT NULL DEFAULT 0,
			reps                  INTEGER NOT NULL DEFAULT 0,
			date_created          TEXT NOT NULL,
			date_modified         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extracts_document ON extracts(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_extracts_due ON extracts(next_review_date)`,

		`CREATE TABLE IF NOT EXISTS learning_items (
			id                      TEXT PRIMARY KEY,
			extract_id              TEXT REFERENCES extracts(id) ON DELETE CASCADE,
			document_id             TEXT REFERENCES documents(id) ON DELETE CASCADE,
			item_type               TEXT NOT NULL,
			question                TEXT NOT NULL,
			answer                  TEXT,
			cloze_text               TEXT,
			cloze_ranges             TEXT NOT NULL DEFAULT '[]',
			difficulty               INTEGER NOT NULL DEFAULT 3,
			interval_days            REAL NOT NULL DEFAULT 0,
			ease_factor              REAL NOT NULL DEFAULT 2.5,
			due_date                 TEXT NOT NULL,
			date_created             TEXT NOT NULL,
			date_modified            TEXT NOT NULL,
			last_review_date         TEXT,
			review_count             INTEGER NOT NULL DEFAULT 0,
			lapses                   INTEGER NOT NULL DEFAULT 0,
			state                    TEXT NOT NULL DEFAULT 'new',
			is_suspended             INTEGER NOT NULL DEFAULT 0,
			tags                     TEXT NOT NULL DEFAULT '[]',
			memory_state_stability   REAL,
			memory_state_difficulty  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_due ON learning_items(due_date, is_suspended)`,
		`CREATE INDEX IF NOT EXISTS idx_items_extract ON learning_items(extract_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_document ON learning_items(document_id)`,
	}
}

// StatsMigrations creates the review-event log, study sessions, and
// daily rollup tables the review applier and statistics aggregator
// depend on.
func StatsMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS review_events (
			id              TEXT PRIMARY KEY,
			session_id      TEXT,
			item_id         TEXT NOT NULL,
			item_kind       TEXT NOT NULL,
			rating          INTEGER NOT NULL,
			time_taken_s    INTEGER NOT NULL DEFAULT 0,
			result_due      TEXT NOT NULL,
			result_interval REAL NOT NULL,
			ease_factor     REAL NOT NULL DEFAULT 0,
			happened_at     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON review_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_happened ON review_events(happened_at)`,

		`CREATE TABLE IF NOT EXISTS study_sessions (
			id             TEXT PRIMARY KEY,
			started_at     TEXT NOT NULL,
			ended_at       TEXT,
			items_reviewed INTEGER NOT NULL DEFAULT 0,
			correct_count  INTEGER NOT NULL DEFAULT 0,
			time_spent_s   INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS daily_stats (
			day             TEXT PRIMARY KEY,
			cards_reviewed  INTEGER NOT NULL DEFAULT 0,
			correct_reviews INTEGER NOT NULL DEFAULT 0,
			study_time_s    INTEGER NOT NULL DEFAULT 0,
			new_cards       INTEGER NOT NULL DEFAULT 0,
			learning_cards  INTEGER NOT NULL DEFAULT 0,
			review_cards    INTEGER NOT NULL DEFAULT 0
		)`,
	}
}

// FullTextMigrations creates the content search index over extract
// text, kept as its own idempotent migration group so it can be
// dropped or rebuilt independently of the core schema. The fts5 table
// keeps its own copy of the indexed text, kept in sync by triggers
// rather than sqlite's external-content mode, since extracts.id is a
// TEXT key rather than an integer rowid alias.
func FullTextMigrations() []string {
	return []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS extracts_fts USING fts5(
			extract_id UNINDEXED, content, notes
		)`,
		`CREATE TRIGGER IF NOT EXISTS extracts_fts_insert AFTER INSERT ON extracts BEGIN
			INSERT INTO extracts_fts(extract_id, content, notes) VALUES (new.id, new.content, coalesce(new.notes, ''));
		END`,
		`CREATE TRIGGER IF NOT EXISTS extracts_fts_update AFTER UPDATE ON extracts BEGIN
			DELETE FROM extracts_fts WHERE extract_id = old.id;
			INSERT INTO extracts_fts(extract_id, content, notes) VALUES (new.id, new.content, coalesce(new.notes, ''));
		END`,
		`CREATE TRIGGER IF NOT EXISTS extracts_fts_delete AFTER DELETE ON extracts BEGIN
			DELETE FROM extracts_fts WHERE extract_id = old.id;
		END`,
	}
}
