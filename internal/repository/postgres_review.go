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

type PostgresReviewRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{
		db: db,
	}
}

// Create inserts the review and recomputes the tour's rating
// aggregates inside one transaction, so listings never observe a
// review without its effect on ratings_average.
func (p *PostgresReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO reviews (tour_id, user_id, rating, review)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, version
		`

		err := tx.QueryRow(
			ctx,
			query,
			review.TourID,
			review.UserID,
			review.Rating,
			review.Review,
		).Scan(&review.ID, &review.CreatedAt, &review.Version)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgerrcode.UniqueViolation:
					return domain.ErrDuplicateReview
				case pgerrcode.ForeignKeyViolation:
					return domain.ErrRecordNotFound
				}
			}

			return err
		}

		return recomputeTourRatings(ctx, tx, review.TourID)
	})
}

func (p *PostgresReviewRepository) GetById(ctx context.Context, id int) (*domain.Review, error) {
	query := `
		SELECT r.id, r.tour_id, r.user_id, u.name, r.rating, r.review,
			r.created_at, r.updated_at, r.version
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.id = $1
	`

	var review domain.Review

	err := p.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.TourID,
		&review.UserID,
		&review.UserName,
		&review.Rating,
		&review.Review,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &review, nil
}

func (p *PostgresReviewRepository) GetByTourId(
	ctx context.Context,
	tourId int,
	pagination domain.Pagination) ([]domain.Review, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			r.id, r.tour_id, r.user_id, u.name, r.rating, r.review, r.created_at
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.tour_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, tourId, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	totalRecords := 0

	for rows.Next() {
		var review domain.Review

		err := rows.Scan(
			&totalRecords,
			&review.ID,
			&review.TourID,
			&review.UserID,
			&review.UserName,
			&review.Rating,
			&review.Review,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return reviews, metadata, nil
}

func (p *PostgresReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE reviews
			SET rating = $1, review = $2, updated_at = NOW(), version = version + 1
			WHERE id = $3 AND version = $4
			RETURNING version
		`

		err := tx.QueryRow(
			ctx,
			query,
			review.Rating,
			review.Review,
			review.ID,
			review.Version,
		).Scan(&review.Version)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrEditConflict
			}

			return err
		}

		return recomputeTourRatings(ctx, tx, review.TourID)
	})
}

func (p *PostgresReviewRepository) Delete(ctx context.Context, id int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var tourId int

		err := tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING tour_id`, id).Scan(&tourId)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		return recomputeTourRatings(ctx, tx, tourId)
	})
}

func recomputeTourRatings(ctx context.Context, tx pgx.Tx, tourId int) error {
	query := `
		UPDATE tours
		SET ratings_average = agg.avg_rating,
			ratings_quantity = agg.num_ratings
		FROM (
			SELECT COALESCE(AVG(rating), 4.5) AS avg_rating, COUNT(*) AS num_ratings
			FROM reviews
			WHERE tour_id = $1
		) agg
		WHERE tours.id = $1
	`

	_, err := tx.Exec(ctx, query, tourId)
	return err
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
