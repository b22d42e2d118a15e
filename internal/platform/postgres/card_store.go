package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/platform/logger"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

const cardColumns = "id, number, balance, owner_id, status, expiry_date, created_at, updated_at"

// Create implements store.CardStore.Create
// Returns store.ErrCardNumberExists when the number is already taken and
// store.ErrInvalidEntity when the owner does not exist.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO cards (id, number, balance, owner_id, status, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.Number,
		card.Balance,
		card.OwnerID,
		card.Status,
		card.ExpiryDate,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("card number collision during create",
				slog.String("card_id", card.ID.String()))
			return store.ErrCardNumberExists
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, card.OwnerID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("owner_id", card.OwnerID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := fmt.Sprintf("SELECT %s FROM cards WHERE id = $1", cardColumns)
	return s.queryCard(ctx, query, id)
}

// GetForUpdate implements store.CardStore.GetForUpdate
// Inside a transaction the row stays locked until commit or rollback.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := fmt.Sprintf("SELECT %s FROM cards WHERE id = $1 FOR UPDATE", cardColumns)
	return s.queryCard(ctx, query, id)
}

func (s *PostgresCardStore) queryCard(ctx context.Context, query string, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card domain.Card
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.Number,
		&card.Balance,
		&card.OwnerID,
		&status,
		&card.ExpiryDate,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	card.Status = domain.CardStatus(status)
	return &card, nil
}

// UpdateBalance implements store.CardStore.UpdateBalance
func (s *PostgresCardStore) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET balance = $1, updated_at = now()
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, balance, id)
	if err != nil {
		log.Error("failed to update card balance",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// UpdateStatus implements store.CardStore.UpdateStatus
func (s *PostgresCardStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET status = $1, updated_at = now()
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		log.Error("failed to update card status",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// ExistsByNumber implements store.CardStore.ExistsByNumber
func (s *PostgresCardStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM cards WHERE number = $1)",
		number,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ListByOwner implements store.CardStore.ListByOwner
func (s *PostgresCardStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) (*store.Page[*domain.Card], error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM cards
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, cardColumns)
	return s.queryCardPage(ctx, query, page, size, ownerID)
}

// ListAll implements store.CardStore.ListAll
func (s *PostgresCardStore) ListAll(ctx context.Context, page, size int) (*store.Page[*domain.Card], error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM cards
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, cardColumns)
	return s.queryCardPage(ctx, query, page, size)
}

// SearchByLastFour implements store.CardStore.SearchByLastFour
func (s *PostgresCardStore) SearchByLastFour(ctx context.Context, lastFour string, page, size int) (*store.Page[*domain.Card], error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM cards
		WHERE number LIKE '%%' || $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, cardColumns)
	return s.queryCardPage(ctx, query, page, size, lastFour)
}

// SearchByOwnerFirstName implements store.CardStore.SearchByOwnerFirstName
func (s *PostgresCardStore) SearchByOwnerFirstName(ctx context.Context, firstName string, page, size int) (*store.Page[*domain.Card], error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM cards c
		WHERE EXISTS (
			SELECT 1 FROM users u
			WHERE u.id = c.owner_id AND u.first_name ILIKE '%%' || $1 || '%%'
		)
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, qualifiedCardColumns("c"))
	return s.queryCardPage(ctx, query, page, size, firstName)
}

// SearchByOwnerName implements store.CardStore.SearchByOwnerName
func (s *PostgresCardStore) SearchByOwnerName(ctx context.Context, firstName, lastName string, page, size int) (*store.Page[*domain.Card], error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM cards c
		WHERE EXISTS (
			SELECT 1 FROM users u
			WHERE u.id = c.owner_id
			  AND (u.first_name ILIKE '%%' || $1 || '%%' OR u.last_name ILIKE '%%' || $2 || '%%')
		)
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4
	`, qualifiedCardColumns("c"))
	return s.queryCardPage(ctx, query, page, size, firstName, lastName)
}

func qualifiedCardColumns(alias string) string {
	return fmt.Sprintf(
		"%[1]s.id, %[1]s.number, %[1]s.balance, %[1]s.owner_id, %[1]s.status, %[1]s.expiry_date, %[1]s.created_at, %[1]s.updated_at",
		alias,
	)
}

// queryCardPage runs a windowed list query. The query must select the
// card columns followed by a count(*) OVER() total, with LIMIT and
// OFFSET as its two final placeholders.
func (s *PostgresCardStore) queryCardPage(ctx context.Context, query string, page, size int, args ...any) (*store.Page[*domain.Card], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page, size = store.ClampPage(page, size)
	args = append(args, size, page*size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	result := &store.Page[*domain.Card]{
		Items: make([]*domain.Card, 0, size),
		Page:  page,
		Size:  size,
	}

	for rows.Next() {
		var card domain.Card
		var status string

		if err := rows.Scan(
			&card.ID,
			&card.Number,
			&card.Balance,
			&card.OwnerID,
			&status,
			&card.ExpiryDate,
			&card.CreatedAt,
			&card.UpdatedAt,
			&result.TotalCount,
		); err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		card.Status = domain.CardStatus(status)
		result.Items = append(result.Items, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return result, nil
}
