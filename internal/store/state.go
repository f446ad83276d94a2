package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storyweave/internal/library"
	"storyweave/internal/model"
)

const stateVersion = 1

// State is the device-local snapshot of the catalog, saved set and reading progress.
type State struct {
	Stories  []model.Story
	Saved    library.SavedSet
	Progress library.Progress
}

// LoadState reads the snapshot. ok is false when nothing has been saved yet.
func (d *DB) LoadState(ctx context.Context) (st *State, ok bool, err error) {
	var v string
	err = d.sql.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "version").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return &State{Saved: library.NewSavedSet(), Progress: library.Progress{}}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if n, _ := strconv.Atoi(v); n > stateVersion {
		return nil, false, fmt.Errorf("state version %s is newer than supported (%d)", v, stateVersion)
	}

	st = &State{Stories: []model.Story{}, Saved: library.NewSavedSet(), Progress: library.Progress{}}

	rows, err := d.sql.QueryContext(ctx, `SELECT id, json FROM stories ORDER BY position`)
	if err != nil {
		return nil, false, err
	}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			_ = rows.Close()
			return nil, false, err
		}
		var s model.Story
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			_ = rows.Close()
			return nil, false, fmt.Errorf("decode story %s: %w", id, err)
		}
		st.Stories = append(st.Stories, s)
	}
	if err := rows.Close(); err != nil {
		return nil, false, err
	}

	rows, err = d.sql.QueryContext(ctx, `SELECT story_id FROM saved`)
	if err != nil {
		return nil, false, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, false, err
		}
		st.Saved[id] = struct{}{}
	}
	if err := rows.Close(); err != nil {
		return nil, false, err
	}

	rows, err = d.sql.QueryContext(ctx, `SELECT story_id, chapter_index FROM progress`)
	if err != nil {
		return nil, false, err
	}
	for rows.Next() {
		var id string
		var idx int
		if err := rows.Scan(&id, &idx); err != nil {
			_ = rows.Close()
			return nil, false, err
		}
		st.Progress.Set(id, idx)
	}
	if err := rows.Close(); err != nil {
		return nil, false, err
	}
	return st, true, nil
}

// SaveState replaces the whole snapshot in one transaction.
func (d *DB) SaveState(ctx context.Context, st *State) error {
	if st == nil {
		return errors.New("nil state")
	}
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(stateVersion)); err != nil {
		return err
	}

	// Replace-all: the snapshot is small (tens of stories).
	for _, t := range []string{"stories", "saved", "progress"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()
	for i, s := range st.Stories {
		raw, err := json.Marshal(s)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO stories(id, position, title, author, genre, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			s.ID, i, s.Title, s.Author, string(s.Genre), string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, id := range st.Saved.IDs() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO saved(story_id, updated_at_unixms) VALUES(?, ?)`, id, nowMs); err != nil {
			return err
		}
	}
	for id, idx := range st.Progress {
		if _, err := tx.ExecContext(ctx, `INSERT INTO progress(story_id, chapter_index, updated_at_unixms) VALUES(?, ?, ?)`, id, idx, nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}
