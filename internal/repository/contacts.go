package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/card-scanner/internal/common"
	"github.com/joseph-ayodele/card-scanner/internal/contact"
	"github.com/joseph-ayodele/card-scanner/internal/entity"
)

// ListOpts controls pagination for List. Limit 0 returns everything.
type ListOpts struct {
	Limit  int
	Offset int
}

// ContactRepository is the caller-owned contact collection, newest first.
type ContactRepository interface {
	Create(ctx context.Context, rec contact.Record, scanID *uuid.UUID) (*entity.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	List(ctx context.Context, opts ListOpts) ([]*entity.Contact, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) (*entity.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewContactRepository(db *DB, logger *slog.Logger) ContactRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &contactRepo{
		db:     db,
		logger: logger,
	}
}

const contactColumns = `id, scan_id, name, company, title, phone, email, website, address, notes, raw, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*entity.Contact, error) {
	var (
		c                    entity.Contact
		id                   string
		scanID               sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&id, &scanID, &c.Name, &c.Company, &c.Title, &c.Phone, &c.Email, &c.Website,
		&c.Address, &c.Notes, &c.Raw, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("contact id %q: %w", id, err)
	}
	if c.ScanID, err = parseNullUUID(scanID); err != nil {
		return nil, err
	}
	c.CreatedAt = fromUnix(createdAt)
	c.UpdatedAt = fromUnix(updatedAt)
	return &c, nil
}

func (r *contactRepo) Create(ctx context.Context, rec contact.Record, scanID *uuid.UUID) (*entity.Contact, error) {
	now := fromUnix(toUnix(time.Now()))
	c := &entity.Contact{ID: uuid.New(), ScanID: scanID, CreatedAt: now, UpdatedAt: now}
	c.SetRecord(rec)

	_, err := r.db.exec(ctx,
		`INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), nullUUID(scanID), c.Name, c.Company, c.Title, c.Phone, c.Email, c.Website,
		c.Address, c.Notes, c.Raw, toUnix(now), toUnix(now))
	if err != nil {
		r.logger.Error("failed to create contact", "scan_id", scanID, "error", err)
		return nil, fmt.Errorf("create contact: %w", err)
	}
	r.logger.Debug("contact created", "contact_id", c.ID, "has_name", c.Name != "")
	return c, nil
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	row := r.db.queryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())
	c, err := scanContact(row)
	if err != nil {
		return nil, fmt.Errorf("get contact %s: %w", id, err)
	}
	return c, nil
}

func (r *contactRepo) List(ctx context.Context, opts ListOpts) ([]*entity.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at DESC, seq DESC`
	var args []any
	switch {
	case opts.Limit > 0:
		q += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, max(opts.Offset, 0))
	case opts.Offset > 0 && r.db.dialect == SQLite:
		// sqlite only accepts OFFSET after a LIMIT
		q += ` LIMIT -1 OFFSET ?`
		args = append(args, opts.Offset)
	case opts.Offset > 0:
		q += ` OFFSET ?`
		args = append(args, opts.Offset)
	}

	rows, err := r.db.query(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list contacts", "error", err)
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("list contacts: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

func (r *contactRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// Update applies user edits. Raw and the extraction timestamps stay as they were.
func (r *contactRepo) Update(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) (*entity.Contact, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return c, nil
	}
	patch.Apply(c)
	c.UpdatedAt = fromUnix(toUnix(time.Now()))

	_, err = r.db.exec(ctx,
		`UPDATE contacts SET name = ?, company = ?, title = ?, phone = ?, email = ?, website = ?,
			address = ?, notes = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Company, c.Title, c.Phone, c.Email, c.Website, c.Address, c.Notes,
		toUnix(c.UpdatedAt), id.String())
	if err != nil {
		r.logger.Error("failed to update contact", "contact_id", id, "error", err)
		return nil, fmt.Errorf("update contact %s: %w", id, err)
	}
	return c, nil
}

func (r *contactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.exec(ctx, `DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		r.logger.Error("failed to delete contact", "contact_id", id, "error", err)
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete contact %s: %w", id, common.ErrNotFound)
	}
	return nil
}
