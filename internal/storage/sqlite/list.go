package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

var (
	_ domain.ListStore   = (*ListStore)(nil)
	_ domain.OwnerLookup = (*ListStore)(nil)
)

const itemColumns = `id, owner_id, name, quantity, unit, category, priority, notes, estimated_price, completed, created_at`

// ListStore is the SQLite-backed shopping list.
type ListStore struct {
	db  *sql.DB
	log *logger.Logger
}

// InsertMany inserts rows one statement at a time, so a failure leaves
// the earlier rows in place and returns them.
func (s *ListStore) InsertMany(ctx context.Context, items []domain.ListItem) ([]domain.ListItem, error) {
	out := make([]domain.ListItem, 0, len(items))
	for _, item := range items {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO list_items (`+itemColumns+`, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
				(SELECT COALESCE(MAX(seq), 0) + 1 FROM list_items))`,
			item.ID, item.OwnerID, item.Name, item.Quantity,
			string(item.Unit), string(item.Category), string(item.Priority),
			item.Notes, nullFloat(item.EstimatedPrice), item.Completed, item.CreatedAt.UnixNano(),
		)
		if err != nil {
			if isConstraint(err) {
				return out, domain.ErrAlreadyExists
			}
			return out, storageErr("sqlite.insert", err)
		}
		out = append(out, item)
	}
	s.log.Debug("sqlite: inserted %d list items", len(out))
	return out, nil
}

// UpdateOne applies patch to the row when ownerID owns it.
func (s *ListStore) UpdateOne(ctx context.Context, id, ownerID string, patch domain.ItemPatch) ([]domain.ListItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("sqlite.update", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM list_items WHERE id = ? AND owner_id = ?`, id, ownerID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("sqlite.update", err)
	}

	patch.Apply(&item)
	_, err = tx.ExecContext(ctx, `
		UPDATE list_items
		SET name = ?, quantity = ?, unit = ?, category = ?, priority = ?,
			notes = ?, estimated_price = ?, completed = ?
		WHERE id = ? AND owner_id = ?`,
		item.Name, item.Quantity, string(item.Unit), string(item.Category), string(item.Priority),
		item.Notes, nullFloat(item.EstimatedPrice), item.Completed, id, ownerID,
	)
	if err != nil {
		return nil, storageErr("sqlite.update", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("sqlite.update", err)
	}
	return []domain.ListItem{item}, nil
}

// DeleteMany removes the listed rows that ownerID owns.
func (s *ListStore) DeleteMany(ctx context.Context, ids []string, ownerID string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}
	q := `DELETE FROM list_items WHERE owner_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, storageErr("sqlite.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("sqlite.delete", err)
	}
	s.log.Debug("sqlite: deleted %d of %d list items for %s", n, len(ids), ownerID)
	return int(n), nil
}

// ListByOwner returns the owner's rows in insertion order.
func (s *ListStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.ListItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM list_items WHERE owner_id = ? ORDER BY seq`, ownerID)
	if err != nil {
		return nil, storageErr("sqlite.list", err)
	}
	defer rows.Close()

	var out []domain.ListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("sqlite.list", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sqlite.list", err)
	}
	return out, nil
}

// FindByName matches the name case-insensitively, oldest row first.
func (s *ListStore) FindByName(ctx context.Context, ownerID, name string) (*domain.ListItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM list_items
		WHERE owner_id = ? AND lower(name) = ?
		ORDER BY seq LIMIT 1`,
		ownerID, strings.ToLower(strings.TrimSpace(name)))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("sqlite.find", err)
	}
	return &item, nil
}

// DeleteCompleted removes the owner's completed rows.
func (s *ListStore) DeleteCompleted(ctx context.Context, ownerID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM list_items WHERE owner_id = ? AND completed = 1`, ownerID)
	if err != nil {
		return 0, storageErr("sqlite.clear", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("sqlite.clear", err)
	}
	return int(n), nil
}

// OwnerOf reports who owns id.
func (s *ListStore) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM list_items WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", storageErr("sqlite.owner", err)
	}
	return owner, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (domain.ListItem, error) {
	var (
		item                     domain.ListItem
		unit, category, priority string
		price                    sql.NullFloat64
		created                  int64
	)
	err := sc.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Quantity,
		&unit, &category, &priority, &item.Notes, &price, &item.Completed, &created)
	if err != nil {
		return item, err
	}
	item.Unit = domain.Unit(unit)
	item.Category = domain.Category(category)
	item.Priority = domain.Priority(priority)
	if price.Valid {
		v := price.Float64
		item.EstimatedPrice = &v
	}
	item.CreatedAt = time.Unix(0, created).UTC()
	return item, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isConstraint reports a uniqueness or key violation. The driver's
// error text is the only stable signal across versions.
func isConstraint(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "PRIMARY KEY")
}
