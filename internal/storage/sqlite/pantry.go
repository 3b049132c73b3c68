package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

var _ domain.PantryStore = (*PantryStore)(nil)

// PantryStore is the SQLite-backed pantry.
type PantryStore struct {
	db  *sql.DB
	log *logger.Logger
}

// ListAll returns the owner's entries sorted by name.
func (s *PantryStore) ListAll(ctx context.Context, ownerID string) ([]domain.PantryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, quantity, unit_amount, unit
		FROM pantry WHERE owner_id = ? ORDER BY lower(name)`, ownerID)
	if err != nil {
		return nil, storageErr("sqlite.pantry", err)
	}
	defer rows.Close()

	var out []domain.PantryEntry
	for rows.Next() {
		var e domain.PantryEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Quantity, &e.UnitAmount, &e.Unit); err != nil {
			return nil, storageErr("sqlite.pantry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("sqlite.pantry", err)
	}
	return out, nil
}

// Upsert inserts entry or replaces the row with the same id.
func (s *PantryStore) Upsert(ctx context.Context, entry domain.PantryEntry) error {
	if entry.OwnerID == "" {
		return domain.Errorf(domain.KindAuthorization, "pantry.upsert", "no owner")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pantry (id, owner_id, name, quantity, unit_amount, unit)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			quantity = excluded.quantity,
			unit_amount = excluded.unit_amount,
			unit = excluded.unit`,
		entry.ID, entry.OwnerID, entry.Name, entry.Quantity, entry.UnitAmount, entry.Unit)
	if err != nil {
		return storageErr("sqlite.upsert", err)
	}
	s.log.Debug("sqlite: upserted pantry entry %s (%s) for %s", entry.ID, entry.Name, entry.OwnerID)
	return nil
}
