package storage

import (
	"database/sql"
	"fmt"
)

// RecordResult asynchronously records a finished game
func (s *Store) RecordResult(record ResultRecord) {
	s.enqueue("result", func(tx *sql.Tx) error {
		query := `INSERT OR REPLACE INTO results (
			game_id, mode, winner, move_count, red_pieces, black_pieces, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.Mode, record.Winner, record.MoveCount,
			record.RedPieces, record.BlackPieces, record.FinishedAt.UTC(),
		)
		return err
	})
}

// QueryResults retrieves results, newest first, optionally filtered.
// Empty or "*" filters match everything.
func (s *Store) QueryResults(mode, winner string) ([]ResultRecord, error) {
	query := `SELECT
		game_id, mode, winner, move_count, red_pieces, black_pieces, finished_at
	FROM results WHERE 1=1`

	var args []any

	if mode != "" && mode != "*" {
		query += " AND mode = ?"
		args = append(args, mode)
	}
	if winner != "" && winner != "*" {
		query += " AND winner = ?"
		args = append(args, winner)
	}

	query += " ORDER BY finished_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var results []ResultRecord
	for rows.Next() {
		var r ResultRecord
		err := rows.Scan(
			&r.GameID, &r.Mode, &r.Winner, &r.MoveCount,
			&r.RedPieces, &r.BlackPieces, &r.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return results, nil
}

// Summarize counts wins per side and games per mode
func (s *Store) Summarize() (Summary, error) {
	sum := Summary{ByMode: make(map[string]int)}

	rows, err := s.db.Query(`SELECT mode, winner, COUNT(*) FROM results GROUP BY mode, winner`)
	if err != nil {
		return Summary{}, fmt.Errorf("summary query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mode, winner string
		var n int
		if err := rows.Scan(&mode, &winner, &n); err != nil {
			return Summary{}, fmt.Errorf("scan failed: %w", err)
		}
		sum.Games += n
		sum.ByMode[mode] += n
		switch winner {
		case "red":
			sum.RedWins += n
		case "black":
			sum.BlackWins += n
		}
	}

	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("rows iteration failed: %w", err)
	}

	return sum, nil
}
