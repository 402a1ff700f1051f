package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/focusdeck/internal/model"
)

// Fixed-width so stored timestamps sort lexically in time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const currentDeckID = "current"

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// embedded migrations. The pool holds a single connection.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=8000", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, in DeckSnapshot) error {
	for _, c := range in.Cards {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("snapshot card %s: %w", c.ID, err)
		}
	}
	savedAt := in.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO deck_state (id, is_playing, active_card_id, selected_card_id, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_playing = excluded.is_playing,
			active_card_id = excluded.active_card_id,
			selected_card_id = excluded.selected_card_id,
			saved_at = excluded.saved_at`,
		currentDeckID, boolInt(in.IsPlaying), in.ActiveCardID, in.SelectedCardID, mustTime(savedAt),
	); err != nil {
		return fmt.Errorf("save deck state: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, currentDeckID); err != nil {
		return fmt.Errorf("clear deck cards: %w", err)
	}
	for i, c := range in.Cards {
		todos, err := encodeTodos(c.Todos)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO deck_cards (deck_id, position, id, type, duration_sec, time_remaining_sec, is_completed, is_selected, content, todos_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			currentDeckID, i, c.ID, string(c.Type), c.Duration, c.TimeRemaining,
			boolInt(c.IsCompleted), boolInt(c.IsSelected), c.Content, todos,
		); err != nil {
			return fmt.Errorf("save deck card %s: %w", c.ID, translateError(err))
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) LoadSnapshot(ctx context.Context) (DeckSnapshot, error) {
	var out DeckSnapshot
	var playing int
	var saved string
	err := r.db.QueryRowContext(ctx, `
		SELECT is_playing, active_card_id, selected_card_id, saved_at
		FROM deck_state WHERE id = ?`, currentDeckID,
	).Scan(&playing, &out.ActiveCardID, &out.SelectedCardID, &saved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DeckSnapshot{}, ErrNotFound
		}
		return DeckSnapshot{}, err
	}
	savedAt, err := parseRequiredTime(saved)
	if err != nil {
		return DeckSnapshot{}, err
	}
	out.IsPlaying = playing == 1
	out.SavedAt = savedAt

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, duration_sec, time_remaining_sec, is_completed, is_selected, content, todos_json
		FROM deck_cards WHERE deck_id = ? ORDER BY position ASC`, currentDeckID)
	if err != nil {
		return DeckSnapshot{}, err
	}
	defer rows.Close()

	out.Cards = make([]model.Card, 0)
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			return DeckSnapshot{}, scanErr
		}
		out.Cards = append(out.Cards, card)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AppendHistory(ctx context.Context, in model.HistoryEntry) error {
	if err := in.Validate(); err != nil {
		return err
	}
	todos, err := encodeTodos(in.Todos)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO history (id, card_id, card_type, duration_sec, content, todos_json, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.CardID, string(in.CardType), in.DurationSec, in.Content, todos, mustTime(in.CompletedAt),
	)
	return translateError(err)
}

func (r *SQLiteRepository) ListHistory(ctx context.Context, filter HistoryFilter) ([]model.HistoryEntry, error) {
	query := `SELECT id, card_id, card_type, duration_sec, content, todos_json, completed_at FROM history`
	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if !filter.From.IsZero() {
		where = append(where, "completed_at >= ?")
		args = append(args, mustTime(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "completed_at < ?")
		args = append(args, mustTime(filter.To))
	}
	if filter.Type != "" {
		where = append(where, "card_type = ?")
		args = append(args, string(filter.Type))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY completed_at DESC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.HistoryEntry, 0)
	for rows.Next() {
		entry, scanErr := scanHistory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// SummarizeHistory groups completions in [from, to) by calendar day. Days are
// taken in from's location, or UTC when from is zero.
func (r *SQLiteRepository) SummarizeHistory(ctx context.Context, from, to time.Time) ([]model.DaySummary, error) {
	entries, err := r.ListHistory(ctx, HistoryFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	loc := time.UTC
	if !from.IsZero() {
		loc = from.Location()
	}
	for i := range entries {
		entries[i].CompletedAt = entries[i].CompletedAt.In(loc)
	}
	return model.Summarize(entries), nil
}

func (r *SQLiteRepository) CreateTemplate(ctx context.Context, in model.Template) error {
	if strings.TrimSpace(in.ID) == "" {
		return errors.New("storage: template id is required")
	}
	if err := in.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = in.CreatedAt
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin template: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO templates (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		in.ID, strings.TrimSpace(in.Name), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	); err != nil {
		return translateError(err)
	}
	if err := insertTemplateCards(ctx, tx, in); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetTemplate(ctx context.Context, id string) (model.Template, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM templates WHERE id = ?`, id)
	return r.loadTemplate(ctx, row)
}

// GetTemplateByName matches names case-insensitively.
func (r *SQLiteRepository) GetTemplateByName(ctx context.Context, name string) (model.Template, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM templates WHERE name = ?`, strings.TrimSpace(name))
	return r.loadTemplate(ctx, row)
}

func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, in model.Template) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin template: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE templates SET name = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(in.Name), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return translateError(err)
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM template_cards WHERE template_id = ?`, in.ID); err != nil {
		return fmt.Errorf("clear template cards: %w", err)
	}
	if err := insertTemplateCards(ctx, tx, in); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTemplates(ctx context.Context, filter TemplateListFilter) ([]model.Template, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, name, created_at, updated_at FROM templates ORDER BY name ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Template, 0)
	for rows.Next() {
		tpl, scanErr := scanTemplate(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, tpl)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// The pool has one connection; the cursor must be released before the
	// card queries below.
	_ = rows.Close()

	for i := range out {
		cards, err := r.templateCards(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Cards = cards
	}
	return out, nil
}

func (r *SQLiteRepository) GetPreferences(ctx context.Context) (model.Preferences, error) {
	var out model.Preferences
	var autoAdvance, sound int
	var updated string
	err := r.db.QueryRowContext(ctx, `
		SELECT session_minutes, break_minutes, auto_advance, sound_enabled, daily_goal, updated_at
		FROM preferences WHERE id = 1`,
	).Scan(&out.SessionMinutes, &out.BreakMinutes, &autoAdvance, &sound, &out.DailyGoal, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultPreferences(), nil
		}
		return model.Preferences{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.Preferences{}, err
	}
	out.AutoAdvance = autoAdvance == 1
	out.SoundEnabled = sound == 1
	out.UpdatedAt = updatedAt
	return out, nil
}

func (r *SQLiteRepository) SavePreferences(ctx context.Context, in model.Preferences) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (id, session_minutes, break_minutes, auto_advance, sound_enabled, daily_goal, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_minutes = excluded.session_minutes,
			break_minutes = excluded.break_minutes,
			auto_advance = excluded.auto_advance,
			sound_enabled = excluded.sound_enabled,
			daily_goal = excluded.daily_goal,
			updated_at = excluded.updated_at`,
		in.SessionMinutes, in.BreakMinutes, boolInt(in.AutoAdvance), boolInt(in.SoundEnabled), in.DailyGoal, mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) loadTemplate(ctx context.Context, row *sql.Row) (model.Template, error) {
	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Template{}, ErrNotFound
		}
		return model.Template{}, err
	}
	cards, err := r.templateCards(ctx, tpl.ID)
	if err != nil {
		return model.Template{}, err
	}
	tpl.Cards = cards
	return tpl, nil
}

func (r *SQLiteRepository) templateCards(ctx context.Context, templateID string) ([]model.TemplateCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type, minutes, content FROM template_cards
		WHERE template_id = ? ORDER BY position ASC`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TemplateCard, 0)
	for rows.Next() {
		var tc model.TemplateCard
		var typ string
		if err := rows.Scan(&typ, &tc.Minutes, &tc.Content); err != nil {
			return nil, err
		}
		tc.Type = model.CardType(typ)
		out = append(out, tc)
	}
	return out, rows.Err()
}

func insertTemplateCards(ctx context.Context, tx *sql.Tx, in model.Template) error {
	for i, tc := range in.Cards {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO template_cards (template_id, position, type, minutes, content)
			VALUES (?, ?, ?, ?, ?)`,
			in.ID, i, string(tc.Type), tc.Minutes, tc.Content,
		); err != nil {
			return fmt.Errorf("save template card %d: %w", i, err)
		}
	}
	return nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			// SQLite only accepts OFFSET after a LIMIT clause.
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func encodeTodos(todos []model.Todo) (string, error) {
	if len(todos) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(todos)
	if err != nil {
		return "", fmt.Errorf("encode todos: %w", err)
	}
	return string(raw), nil
}

func decodeTodos(raw string) ([]model.Todo, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var out []model.Todo
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (model.Card, error) {
	var out model.Card
	var typ, todos string
	var completed, selected int
	if err := s.Scan(&out.ID, &typ, &out.Duration, &out.TimeRemaining, &completed, &selected, &out.Content, &todos); err != nil {
		return model.Card{}, err
	}
	decoded, err := decodeTodos(todos)
	if err != nil {
		return model.Card{}, err
	}
	out.Type = model.CardType(typ)
	out.IsCompleted = completed == 1
	out.IsSelected = selected == 1
	out.Todos = decoded
	return out, nil
}

func scanHistory(s scanner) (model.HistoryEntry, error) {
	var out model.HistoryEntry
	var typ, todos, completed string
	if err := s.Scan(&out.ID, &out.CardID, &typ, &out.DurationSec, &out.Content, &todos, &completed); err != nil {
		return model.HistoryEntry{}, err
	}
	completedAt, err := parseRequiredTime(completed)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	decoded, err := decodeTodos(todos)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	out.CardType = model.CardType(typ)
	out.CompletedAt = completedAt
	out.Todos = decoded
	return out, nil
}

func scanTemplate(s scanner) (model.Template, error) {
	var out model.Template
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &created, &updated); err != nil {
		return model.Template{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Template{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.Template{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// translateError maps uniqueness violations to ErrConflict.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return err
}
