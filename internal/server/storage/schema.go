package storage

import "time"

// ResultRecord is the outcome of one finished game. Moves are not stored.
type ResultRecord struct {
	GameID      string    `db:"game_id"`
	Mode        string    `db:"mode"`
	Winner      string    `db:"winner"`
	MoveCount   int       `db:"move_count"`
	RedPieces   int       `db:"red_pieces"`
	BlackPieces int       `db:"black_pieces"`
	FinishedAt  time.Time `db:"finished_at"`
}

// Summary aggregates recorded results
type Summary struct {
	Games     int
	RedWins   int
	BlackWins int
	ByMode    map[string]int
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS results (
	game_id TEXT PRIMARY KEY,
	mode TEXT NOT NULL CHECK(mode IN ('pvp', 'pvai')),
	winner TEXT NOT NULL CHECK(winner IN ('red', 'black')),
	move_count INTEGER NOT NULL,
	red_pieces INTEGER NOT NULL,
	black_pieces INTEGER NOT NULL,
	finished_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_results_mode ON results(mode);
CREATE INDEX IF NOT EXISTS idx_results_winner ON results(winner);
CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at);
`
