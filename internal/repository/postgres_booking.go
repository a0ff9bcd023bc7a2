package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create inserts a booking. The checkout_session_id column carries a
// unique constraint, which is the idempotency guard for redelivered
// webhook events.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (reference, tour_id, user_id, checkout_session_id, amount, currency, paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	err := p.db.QueryRow(
		ctx,
		query,
		booking.Reference,
		booking.TourID,
		booking.UserID,
		booking.CheckoutSessionID,
		booking.Amount,
		booking.Currency,
		booking.Paid,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.Version)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrDuplicateBooking
		}

		return err
	}

	return nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT id, reference, tour_id, user_id, checkout_session_id, amount,
			currency, paid, created_at, updated_at, version
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.TourID,
		&booking.UserID,
		&booking.CheckoutSessionID,
		&booking.Amount,
		&booking.Currency,
		&booking.Paid,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id, b.reference, t.name, t.slug, b.amount, b.paid, b.created_at
		FROM bookings b
		JOIN tours t ON b.tour_id = t.id
		ORDER BY b.created_at DESC
		LIMIT $1 OFFSET $2
	`

	return p.listSummaries(ctx, query, pagination, pagination.Limit(), pagination.Offset())
}

func (p *PostgresBookingRepository) GetByUserId(
	ctx context.Context,
	userId int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id, b.reference, t.name, t.slug, b.amount, b.paid, b.created_at
		FROM bookings b
		JOIN tours t ON b.tour_id = t.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return p.listSummaries(ctx, query, pagination, userId, pagination.Limit(), pagination.Offset())
}

func (p *PostgresBookingRepository) listSummaries(
	ctx context.Context,
	query string,
	pagination domain.Pagination,
	args ...any) ([]domain.BookingSummary, *domain.Metadata, error) {

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var booking domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&booking.BookingID,
			&booking.Reference,
			&booking.TourName,
			&booking.TourSlug,
			&booking.Amount,
			&booking.Paid,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}

func (p *PostgresBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET paid = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	err := p.db.QueryRow(ctx, query, booking.Paid, booking.ID, booking.Version).Scan(&booking.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresBookingRepository) Delete(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
