// Package vocabentry publishes vocabulary artifacts to PostgreSQL and reads
// them back for the query service.
package vocabentry

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/lumen/internal/adapter/postgres"
	"github.com/heartmarshall/lumen/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides vocab entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
}

// New creates a new vocab entry repository.
func New(pool *pgxpool.Pool, tx *postgres.TxManager) *Repo {
	return &Repo{pool: pool, tx: tx}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Publish replaces every entry of language with entries in one transaction
// and returns the number of rows inserted.
func (r *Repo) Publish(ctx context.Context, language string, entries []domain.VocabEntry) (int, error) {
	batch := &pgx.Batch{}
	for _, e := range entries {
		key, err := uuid.Parse(e.Key)
		if err != nil {
			return 0, domain.NewValidationError("key", fmt.Sprintf("%q is not a uuid", e.Key))
		}
		batch.Queue(
			`INSERT INTO vocab_entries (key, language, word, difficulty) VALUES ($1, $2, $3, $4)`,
			key, language, e.Word, string(e.Difficulty),
		)
	}

	var inserted int
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)
		if _, err := q.Exec(ctx, `DELETE FROM vocab_entries WHERE language = $1`, language); err != nil {
			return postgres.MapError(err, "clear vocab entries "+language)
		}
		if batch.Len() == 0 {
			return nil
		}
		n, err := sendBatchExec(ctx, q, batch)
		if err != nil {
			return postgres.MapError(err, "insert vocab entries "+language)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Entries returns all entries of language ordered by key.
// Returns domain.ErrNotFound when nothing is published for language.
func (r *Repo) Entries(ctx context.Context, language string) ([]domain.VocabEntry, error) {
	query, args, err := psql.
		Select("key", "language", "word", "difficulty").
		From("vocab_entries").
		Where(sq.Eq{"language": language}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entries query: %w", err)
	}

	entries, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "vocab entries "+language)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("vocab entries %s: %w", language, domain.ErrNotFound)
	}
	return entries, nil
}

// Count returns the number of entries of language, optionally restricted
// to one difficulty. Returns domain.ErrNotFound when nothing is published
// for language, so an empty tier is distinguishable from a missing language.
func (r *Repo) Count(ctx context.Context, language string, difficulty *domain.Difficulty) (int, error) {
	b := psql.Select("count(*)").From("vocab_entries").Where(sq.Eq{"language": language})
	if difficulty != nil {
		b = b.Column(sq.Expr("count(*) FILTER (WHERE difficulty = ?)", string(*difficulty)))
	} else {
		b = b.Column("count(*)")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total, n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&total, &n); err != nil {
		return 0, postgres.MapError(err, "count vocab entries "+language)
	}
	if total == 0 {
		return 0, fmt.Errorf("vocab entries %s: %w", language, domain.ErrNotFound)
	}
	return n, nil
}

// Languages returns every language with published entries, sorted.
func (r *Repo) Languages(ctx context.Context) ([]string, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`SELECT DISTINCT language FROM vocab_entries ORDER BY language`)
	if err != nil {
		return nil, postgres.MapError(err, "list languages")
	}
	langs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.MapError(err, "list languages")
	}
	return langs, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (r *Repo) query(ctx context.Context, query string, args ...any) ([]domain.VocabEntry, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.VocabEntry
	for rows.Next() {
		var (
			key  uuid.UUID
			e    domain.VocabEntry
			diff string
		)
		if err := rows.Scan(&key, &e.Language, &e.Word, &diff); err != nil {
			return nil, fmt.Errorf("scan vocab entry: %w", err)
		}
		e.Key = key.String()
		e.Difficulty = domain.Difficulty(diff)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// sendBatchExec sends a pgx.Batch and counts affected rows from Exec results.
func sendBatchExec(ctx context.Context, q postgres.Querier, batch *pgx.Batch) (int, error) {
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
