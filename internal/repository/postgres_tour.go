package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

var tourSortColumns = map[string]bool{
	"price":           true,
	"duration":        true,
	"ratings_average": true,
	"created_at":      true,
	"name":            true,
}

type PostgresTourRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTourRepository(db *pgxpool.Pool) *PostgresTourRepository {
	return &PostgresTourRepository{
		db: db,
	}
}

func (p *PostgresTourRepository) Create(ctx context.Context, tour *domain.Tour) error {
	query := `
		INSERT INTO tours (
			name,
			slug,
			duration,
			max_group_size,
			difficulty,
			price,
			summary,
			description,
			image_cover
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, ratings_average, ratings_quantity, created_at, version
	`

	err := p.db.QueryRow(
		ctx,
		query,
		tour.Name,
		tour.Slug,
		tour.Duration,
		tour.MaxGroupSize,
		tour.Difficulty,
		tour.Price,
		tour.Summary,
		tour.Description,
		tour.ImageCover,
	).Scan(&tour.ID, &tour.RatingsAverage, &tour.RatingsQuantity, &tour.CreatedAt, &tour.Version)

	return err
}

func (p *PostgresTourRepository) GetById(ctx context.Context, id int) (*domain.Tour, error) {
	query := `
		SELECT id, name, slug, duration, max_group_size, difficulty, price,
			summary, description, image_cover, ratings_average, ratings_quantity,
			created_at, updated_at, version
		FROM tours
		WHERE id = $1
	`

	var tour domain.Tour

	err := p.db.QueryRow(ctx, query, id).Scan(
		&tour.ID,
		&tour.Name,
		&tour.Slug,
		&tour.Duration,
		&tour.MaxGroupSize,
		&tour.Difficulty,
		&tour.Price,
		&tour.Summary,
		&tour.Description,
		&tour.ImageCover,
		&tour.RatingsAverage,
		&tour.RatingsQuantity,
		&tour.CreatedAt,
		&tour.UpdatedAt,
		&tour.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &tour, nil
}

func (p *PostgresTourRepository) GetAll(
	ctx context.Context,
	filter domain.TourFilter,
	pagination domain.Pagination) ([]domain.Tour, *domain.Metadata, error) {

	sortColumn := pagination.SortColumn()
	if !tourSortColumns[sortColumn] {
		sortColumn = "created_at"
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) OVER(),
			id, name, slug, duration, max_group_size, difficulty, price,
			summary, image_cover, ratings_average, ratings_quantity, created_at
		FROM tours
		WHERE ($1::text IS NULL OR difficulty = $1)
		AND ($2::numeric IS NULL OR price >= $2)
		AND ($3::numeric IS NULL OR price <= $3)
		ORDER BY %s %s, id ASC
		LIMIT $4 OFFSET $5
	`, sortColumn, pagination.SortDirection())

	rows, err := p.db.Query(
		ctx,
		query,
		filter.Difficulty,
		filter.MinPrice,
		filter.MaxPrice,
		pagination.Limit(),
		pagination.Offset(),
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	tours := make([]domain.Tour, 0)
	totalRecords := 0

	for rows.Next() {
		var tour domain.Tour

		err := rows.Scan(
			&totalRecords,
			&tour.ID,
			&tour.Name,
			&tour.Slug,
			&tour.Duration,
			&tour.MaxGroupSize,
			&tour.Difficulty,
			&tour.Price,
			&tour.Summary,
			&tour.ImageCover,
			&tour.RatingsAverage,
			&tour.RatingsQuantity,
			&tour.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		tours = append(tours, tour)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return tours, metadata, nil
}

func (p *PostgresTourRepository) Update(ctx context.Context, tour *domain.Tour) error {
	query := `
		UPDATE tours
		SET name = $1, slug = $2, duration = $3, max_group_size = $4,
			difficulty = $5, price = $6, summary = $7, description = $8,
			image_cover = $9, updated_at = NOW(), version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING version
	`

	err := p.db.QueryRow(
		ctx,
		query,
		tour.Name,
		tour.Slug,
		tour.Duration,
		tour.MaxGroupSize,
		tour.Difficulty,
		tour.Price,
		tour.Summary,
		tour.Description,
		tour.ImageCover,
		tour.ID,
		tour.Version,
	).Scan(&tour.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresTourRepository) Delete(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
