// Package token implements the sentence-token repository using PostgreSQL.
package token

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mchales/huistack-backend/internal/adapter/postgres"
	"github.com/mchales/huistack-backend/internal/domain"
)

// Repo provides token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertTokenSQL = `
INSERT INTO sentence_tokens (id, sentence_id, index, text, kind, lemma_id)
VALUES ($1, $2, $3, $4, $5, $6)`

const listBySentenceSQL = `
SELECT id, sentence_id, index, text, kind, lemma_id
FROM sentence_tokens
WHERE sentence_id = $1
ORDER BY index, id`

// BulkInsert inserts tokens using pgx.Batch: one round trip for the whole
// sentence instead of one insert per token.
func (r *Repo) BulkInsert(ctx context.Context, tokens []domain.Token) error {
	if len(tokens) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for i := range tokens {
		t := &tokens[i]
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		batch.Queue(insertTokenSQL, t.ID, t.SentenceID, t.Index, t.Text, t.Kind, t.LemmaID)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for range tokens {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("bulk insert tokens: %w", err)
		}
	}
	return nil
}

// ListBySentence returns a sentence's tokens in index order.
func (r *Repo) ListBySentence(ctx context.Context, sentenceID uuid.UUID) ([]domain.Token, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listBySentenceSQL, sentenceID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var t domain.Token
		if err := rows.Scan(&t.ID, &t.SentenceID, &t.Index, &t.Text, &t.Kind, &t.LemmaID); err != nil {
			return nil, fmt.Errorf("list tokens: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
