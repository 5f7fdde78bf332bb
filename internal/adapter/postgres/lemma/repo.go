// Package lemma implements the dictionary headword repository using PostgreSQL.
// The only lookup the ingestion core issues is the batched surface-form
// query: the whole candidate set resolves in one round trip.
package lemma

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mchales/huistack-backend/internal/adapter/postgres"
	"github.com/mchales/huistack-backend/internal/domain"
)

// Repo provides lemma lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lemma repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// GetBySurfaceForms returns one LemmaRef per matched simplified surface
// form. Forms with no headword are simply absent from the result map.
// When several headwords share a surface form (same simplified, different
// pinyin) the first by pinyin order wins, deterministically.
func (r *Repo) GetBySurfaceForms(ctx context.Context, forms []string) (map[string]domain.LemmaRef, error) {
	if len(forms) == 0 {
		return map[string]domain.LemmaRef{}, nil
	}

	query := psql.
		Select("DISTINCT ON (simplified) simplified", "id", "pinyin_numbers").
		From("lemmas").
		Where(sq.Eq{"simplified": forms}).
		OrderBy("simplified", "pinyin_numbers")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build surface-form query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup surface forms: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.LemmaRef, len(forms))
	for rows.Next() {
		var (
			surface string
			ref     domain.LemmaRef
		)
		if err := rows.Scan(&surface, &ref.ID, &ref.PinyinNumbers); err != nil {
			return nil, fmt.Errorf("lookup surface forms: %w", err)
		}
		result[surface] = ref
	}
	return result, rows.Err()
}

// GetByID returns one headword.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lemma, error) {
	query := psql.
		Select("id", "traditional", "simplified", "pinyin_numbers").
		From("lemmas").
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lemma query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var l domain.Lemma
	err = querier.QueryRow(ctx, sql, args...).
		Scan(&l.ID, &l.Traditional, &l.Simplified, &l.PinyinNumbers)
	if err != nil {
		return nil, postgres.MapError(err, "lemma", id)
	}
	return &l, nil
}
