package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/akademix/internal/app/models"
)

// IAuditRepository defines audit log persistence operations. The log is
// append-only: no update or delete statement exists for it.
type IAuditRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, entry *models.AuditLog) error
	ListRecent(ctx context.Context, offset uint64, limit int) ([]*models.AuditLog, error)
	Count(ctx context.Context) (int64, error)
}

// AuditRepository handles database operations for the audit log
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

// CreateTx inserts an audit entry within the same transaction as the
// mutation it records, so the entry and the mutation commit or roll back
// together.
func (r *AuditRepository) CreateTx(ctx context.Context, tx pgx.Tx, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, details)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, entry.UserID, entry.Action, entry.Details).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating audit entry: %w", err)
	}

	return nil
}

// ListRecent retrieves audit entries newest first, joined with the acting
// user's username for display.
func (r *AuditRepository) ListRecent(ctx context.Context, offset uint64, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT a.id, a.user_id, a.action, a.details, a.created_at,
		       COALESCE(u.username, ''), COALESCE(u.role, '')
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC, a.id DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		var user models.User
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&entry.CreatedAt,
			&user.Username,
			&user.Role,
		); err != nil {
			return nil, err
		}
		// Entries outlive their author; deleted users leave an empty join.
		if user.Username != "" {
			user.ID = entry.UserID
			entry.User = &user
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the total number of audit entries
func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting audit entries: %w", err)
	}

	return count, nil
}
