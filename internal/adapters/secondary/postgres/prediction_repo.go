package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wine-tier-service/internal/core/domain"
	output "wine-tier-service/internal/core/ports/output"
)

type predictionRepo struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository creates a new PredictionRepository
func NewPredictionRepository(pool *pgxpool.Pool) output.PredictionRepository {
	return &predictionRepo{pool: pool}
}

const predictionColumns = `
	id, created_at, request_id,
	country, category_level1, category_level2,
	alcohol_percentage, volume, vintage, is_organic,
	class_index, label, range_low, range_high
`

func (r *predictionRepo) Create(ctx context.Context, rec *domain.PredictionRecord) error {
	query := `
		INSERT INTO prediction_history (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.CreatedAt, rec.RequestID,
		rec.Input.Country, rec.Input.CategoryLevel1, rec.Input.CategoryLevel2,
		rec.Input.AlcoholPercentage, rec.Input.Volume, rec.Input.Vintage, rec.Input.IsOrganic,
		rec.ClassIndex, rec.Label, rec.RangeLow, rec.RangeHigh,
	)
	if err != nil {
		return fmt.Errorf("create prediction record: %w", err)
	}
	return nil
}

func (r *predictionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PredictionRecord, error) {
	query := `SELECT ` + predictionColumns + ` FROM prediction_history WHERE id = $1`

	rec, err := scanPrediction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get prediction record by id: %w", err)
	}
	return rec, nil
}

func (r *predictionRepo) List(ctx context.Context, filter output.PredictionFilter) ([]*domain.PredictionRecord, int, error) {
	q := buildListQuery(filter)

	// Count
	var total int
	if err := r.pool.QueryRow(ctx, q.count, q.countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prediction records: %w", err)
	}

	rows, err := r.pool.Query(ctx, q.list, q.listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list prediction records: %w", err)
	}
	defer rows.Close()

	var records []*domain.PredictionRecord
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan prediction row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate prediction rows: %w", err)
	}

	return records, total, nil
}

type listQuery struct {
	count     string
	countArgs []interface{}
	list      string
	listArgs  []interface{}
}

// buildListQuery renders the count and page queries for a filter. The page
// query takes the filter args followed by LIMIT and OFFSET.
func buildListQuery(filter output.PredictionFilter) listQuery {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filter.Label != "" {
		conditions = append(conditions, fmt.Sprintf("label = $%d", argPos))
		args = append(args, filter.Label)
		argPos++
	}
	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *filter.Since)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	dir := "DESC"
	if filter.Order == "asc" {
		dir = "ASC"
	}

	list := fmt.Sprintf(`
		SELECT %s
		FROM prediction_history
		WHERE %s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d
	`, predictionColumns, whereClause, dir, argPos, argPos+1)

	listArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset)

	return listQuery{
		count:     fmt.Sprintf(`SELECT COUNT(*) FROM prediction_history WHERE %s`, whereClause),
		countArgs: args,
		list:      list,
		listArgs:  listArgs,
	}
}

func scanPrediction(row pgx.Row) (*domain.PredictionRecord, error) {
	var rec domain.PredictionRecord
	err := row.Scan(
		&rec.ID, &rec.CreatedAt, &rec.RequestID,
		&rec.Input.Country, &rec.Input.CategoryLevel1, &rec.Input.CategoryLevel2,
		&rec.Input.AlcoholPercentage, &rec.Input.Volume, &rec.Input.Vintage, &rec.Input.IsOrganic,
		&rec.ClassIndex, &rec.Label, &rec.RangeLow, &rec.RangeHigh,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
