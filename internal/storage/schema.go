package storage

const schema = `
-- Decks are named card collections owned by one user. source_path is set on
-- decks maintained by the importer.
CREATE TABLE IF NOT EXISTS decks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    updated_at DATETIME,
    source_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_decks_user ON decks(user_id);

-- Cards carry their SM-2 scheduling state. The scheduling columns stay NULL
-- until the first review; readers apply the new-card defaults.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    efactor REAL,
    repetitions INTEGER,
    next_review DATETIME,
    last_studied DATETIME,
    updated_at DATETIME,
    import_hash TEXT NOT NULL DEFAULT '',

    FOREIGN KEY(deck_id) REFERENCES decks(id)
);
CREATE INDEX IF NOT EXISTS idx_cards_deck ON cards(deck_id);
CREATE INDEX IF NOT EXISTS idx_cards_deck_next_review ON cards(deck_id, next_review);

CREATE TABLE IF NOT EXISTS study_sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    deck_id TEXT NOT NULL,
    started_at DATETIME NOT NULL,
    completed_at DATETIME,
    cards_studied INTEGER NOT NULL DEFAULT 0,
    cards_correct INTEGER NOT NULL DEFAULT 0,
    cards_incorrect INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sessions_user_started ON study_sessions(user_id, started_at);

-- Per-card review log. Informational; scheduling does not read it back.
CREATE TABLE IF NOT EXISTS study_events (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    card_id TEXT NOT NULL,
    deck_id TEXT NOT NULL,
    quality INTEGER NOT NULL,
    timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_session ON study_events(session_id);
`
