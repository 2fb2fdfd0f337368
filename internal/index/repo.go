package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/safal938/board28-sub000/internal/apperr"
	"github.com/safal938/board28-sub000/internal/models"
)

// ListFilter narrows ListItems. Zero values mean "no filter"; Limit <= 0
// selects the default page size.
type ListFilter struct {
	Kind   string
	Track  string
	Query  string
	Limit  int
	Offset int
}

const (
	defaultLimit = 200
	itemColumns  = `id, kind, title, x, y, width, height, height_auto, date, end_date, track, body, checksum, updated_at`
)

// UpsertItem inserts or replaces the row for the card file at path.
func (db *DB) UpsertItem(path string, it models.Item) error {
	updated := it.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO items (path, `+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id          = excluded.id,
			kind        = excluded.kind,
			title       = excluded.title,
			x           = excluded.x,
			y           = excluded.y,
			width       = excluded.width,
			height      = excluded.height,
			height_auto = excluded.height_auto,
			date        = excluded.date,
			end_date    = excluded.end_date,
			track       = excluded.track,
			body        = excluded.body,
			checksum    = excluded.checksum,
			updated_at  = excluded.updated_at
	`, path, it.ID, it.Kind, it.Title, it.X, it.Y, it.Width, it.Height.Value, it.Height.Auto,
		nullTime(it.Date), nullTime(it.EndDate), it.Track, it.Body, it.Checksum, updated)
	if err != nil {
		return fmt.Errorf("index: upsert item %s: %w", it.ID, err)
	}
	return nil
}

// DeleteByPath removes the row for a card file and returns the id it held,
// or "" when nothing was indexed at path.
func (db *DB) DeleteByPath(path string) (string, error) {
	var id string
	err := db.conn.QueryRow(`DELETE FROM items WHERE path = ? RETURNING id`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: delete %s: %w", path, err)
	}
	return id, nil
}

// GetItem returns the item with the given id or apperr.ErrNotFound.
func (db *DB) GetItem(id string) (*models.Item, error) {
	row := db.conn.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get item %s: %w", id, err)
	}
	return it, nil
}

// PathOf returns the card file path of an item or apperr.ErrNotFound.
func (db *DB) PathOf(id string) (string, error) {
	var p string
	err := db.conn.QueryRow(`SELECT path FROM items WHERE id = ?`, id).Scan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("index: path of %s: %w", id, err)
	}
	return p, nil
}

// ListItems returns a page of items ordered by id plus the total match count.
func (db *DB) ListItems(f ListFilter) ([]models.Item, int, error) {
	var where []string
	var args []any
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Track != "" {
		where = append(where, "track = ?")
		args = append(args, f.Track)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		where = append(where, "(title LIKE ? OR body LIKE ?)")
		args = append(args, like, like)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count items: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	offset := max(0, f.Offset)
	rows, err := db.conn.Query(`SELECT `+itemColumns+` FROM items`+clause+` ORDER BY id LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list items: %w", err)
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// DatedItems returns every item with a date, oldest first.
func (db *DB) DatedItems() ([]models.Item, error) {
	rows, err := db.conn.Query(`SELECT ` + itemColumns + ` FROM items WHERE date IS NOT NULL ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("index: dated items: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// AllChecksums returns path → checksum for every indexed card file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM items`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.Item, error) {
	var (
		it            models.Item
		height        float64
		auto          bool
		date, endDate sql.NullTime
	)
	if err := s.Scan(&it.ID, &it.Kind, &it.Title, &it.X, &it.Y, &it.Width, &height, &auto,
		&date, &endDate, &it.Track, &it.Body, &it.Checksum, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Height = models.Height{Value: height, Auto: auto}
	it.Date = timePtr(date)
	it.EndDate = timePtr(endDate)
	return &it, nil
}

func collect(rows *sql.Rows) ([]models.Item, error) {
	var out []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("index: scan item: %w", err)
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time.UTC()
	return &t
}
