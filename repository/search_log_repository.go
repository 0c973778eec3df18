package repository

import (
	"context"

	"tariffdesk-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchLogRepository handles database operations for search logs
type SearchLogRepository struct {
	db *pgxpool.Pool
}

// NewSearchLogRepository creates a new search log repository
func NewSearchLogRepository(db *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

// Create creates a new search log record
func (r *SearchLogRepository) Create(ctx context.Context, log *models.SearchLog) error {
	query := `
		INSERT INTO search_logs (
			dataset, query, image_hint, image_path, source, suggestions
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		log.Dataset,
		log.Query,
		log.ImageHint,
		log.ImagePath,
		log.Source,
		log.Suggestions,
	).Scan(&log.ID, &log.CreatedAt)

	return err
}

// Recent retrieves the most recent search logs for a dataset
func (r *SearchLogRepository) Recent(ctx context.Context, dataset string, limit int) ([]*models.SearchLog, error) {
	query := `
		SELECT id, dataset, query, image_hint, image_path, source, suggestions, created_at
		FROM search_logs
		WHERE dataset = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, dataset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.SearchLog
	for rows.Next() {
		log := &models.SearchLog{}
		err := rows.Scan(
			&log.ID,
			&log.Dataset,
			&log.Query,
			&log.ImageHint,
			&log.ImagePath,
			&log.Source,
			&log.Suggestions,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// TopQueries aggregates the most frequent queries for a dataset
func (r *SearchLogRepository) TopQueries(ctx context.Context, dataset string, limit int) (map[string]int, error) {
	query := `
		SELECT query, COUNT(*) AS hits
		FROM search_logs
		WHERE dataset = $1 AND query <> ''
		GROUP BY query
		ORDER BY hits DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, dataset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var q string
		var hits int
		if err := rows.Scan(&q, &hits); err != nil {
			return nil, err
		}
		counts[q] = hits
	}

	return counts, rows.Err()
}
