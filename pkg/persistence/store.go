// Package persistence provides SQLite-based archival of completed episodes.
//
// The archive is off the per-turn hot path: a snapshot of the bot's episode
// state is written once, after a game finishes, for post-game analysis.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"spielbot/pkg/bot"
	"spielbot/pkg/llm"
	"spielbot/pkg/logx"
)

// ErrEpisodeNotFound is returned when a requested episode does not exist.
var ErrEpisodeNotFound = errors.New("episode not found")

// EpisodeRecord is the archived form of one finished episode.
type EpisodeRecord struct {
	ID         string             `json:"id"`
	GameID     string             `json:"game_id"`
	Player     int                `json:"player"`
	CreatedAt  time.Time          `json:"created_at"`
	Transcript []bot.Message      `json:"transcript"`
	History    []bot.ActionRecord `json:"history"`
	Usage      llm.Usage          `json:"usage"`
	LastError  *bot.TurnError     `json:"last_error,omitempty"`
}

// Snapshot captures the current episode state of b as a new record.
func Snapshot(gameID string, b *bot.Bot) EpisodeRecord {
	return EpisodeRecord{
		ID:         uuid.NewString(),
		GameID:     gameID,
		Player:     b.PlayerID(),
		CreatedAt:  time.Now().UTC(),
		Transcript: b.Conversation(),
		History:    b.History(),
		Usage:      b.TotalUsage(),
		LastError:  b.LastError(),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS episodes (
	id                TEXT PRIMARY KEY,
	game_id           TEXT NOT NULL,
	player            INTEGER NOT NULL,
	created_at        TIMESTAMP NOT NULL,
	prompt_tokens     INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	total_tokens      INTEGER NOT NULL,
	transcript_json   TEXT NOT NULL,
	history_json      TEXT NOT NULL,
	last_error_json   TEXT
);
CREATE INDEX IF NOT EXISTS idx_episodes_game ON episodes(game_id, created_at);
`

// Store is a handle to the episode archive.
type Store struct {
	db     *sql.DB
	logger *logx.Logger
}

// Open opens (and if needed creates) the archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open episode archive: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping episode archive: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db, logger: logx.NewLogger("persistence")}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close episode archive: %w", err)
	}
	return nil
}

// SaveEpisode writes one episode record.
func (s *Store) SaveEpisode(ctx context.Context, rec EpisodeRecord) error {
	transcriptJSON, err := json.Marshal(rec.Transcript)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	historyJSON, err := json.Marshal(rec.History)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	var lastErrorJSON sql.NullString
	if rec.LastError != nil {
		encoded, err := json.Marshal(rec.LastError)
		if err != nil {
			return fmt.Errorf("failed to encode last error: %w", err)
		}
		lastErrorJSON = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO episodes (
			id, game_id, player, created_at,
			prompt_tokens, completion_tokens, total_tokens,
			transcript_json, history_json, last_error_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.GameID, rec.Player, rec.CreatedAt,
		rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.Usage.TotalTokens,
		string(transcriptJSON), string(historyJSON), lastErrorJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert episode %s: %w", rec.ID, err)
	}

	s.logger.Debug("archived episode %s (game=%s, %d transcript entries)",
		rec.ID, rec.GameID, len(rec.Transcript))
	return nil
}

// GetEpisode loads one episode by id.
func (s *Store) GetEpisode(ctx context.Context, id string) (EpisodeRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, game_id, player, created_at,
		       prompt_tokens, completion_tokens, total_tokens,
		       transcript_json, history_json, last_error_json
		FROM episodes WHERE id = ?`, id)
	return scanEpisode(row)
}

// ListEpisodes returns all episodes for a game, newest first.
func (s *Store) ListEpisodes(ctx context.Context, gameID string) ([]EpisodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, player, created_at,
		       prompt_tokens, completion_tokens, total_tokens,
		       transcript_json, history_json, last_error_json
		FROM episodes WHERE game_id = ? ORDER BY created_at DESC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []EpisodeRecord
	for rows.Next() {
		rec, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate episodes: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (EpisodeRecord, error) {
	var (
		rec           EpisodeRecord
		transcript    string
		history       string
		lastErrorJSON sql.NullString
	)

	err := row.Scan(
		&rec.ID, &rec.GameID, &rec.Player, &rec.CreatedAt,
		&rec.Usage.PromptTokens, &rec.Usage.CompletionTokens, &rec.Usage.TotalTokens,
		&transcript, &history, &lastErrorJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return EpisodeRecord{}, ErrEpisodeNotFound
	}
	if err != nil {
		return EpisodeRecord{}, fmt.Errorf("failed to scan episode: %w", err)
	}

	if err := json.Unmarshal([]byte(transcript), &rec.Transcript); err != nil {
		return EpisodeRecord{}, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &rec.History); err != nil {
		return EpisodeRecord{}, fmt.Errorf("failed to decode history: %w", err)
	}
	if lastErrorJSON.Valid {
		rec.LastError = &bot.TurnError{}
		if err := json.Unmarshal([]byte(lastErrorJSON.String), rec.LastError); err != nil {
			return EpisodeRecord{}, fmt.Errorf("failed to decode last error: %w", err)
		}
	}
	return rec, nil
}
