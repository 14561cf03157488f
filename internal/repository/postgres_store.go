package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	desk_errors "socialdesk/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostgresStore keeps one table per collection with the document held as
// relaxed extended JSON in a jsonb column.
type PostgresStore[T any, P Entity[T]] struct {
	pool  *pgxpool.Pool
	table string
	name  string
}

func NewPostgresStore[T any, P Entity[T]](pool *pgxpool.Pool, collection string) *PostgresStore[T, P] {
	return &PostgresStore[T, P]{
		pool:  pool,
		table: pgx.Identifier{collection}.Sanitize(),
		name:  collection,
	}
}

func (s *PostgresStore[T, P]) Migrate(ctx context.Context, indexes ...Index) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id text PRIMARY KEY,
		created_at timestamptz NOT NULL,
		doc jsonb NOT NULL
	)`, s.table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", s.name, err)
	}
	created := pgx.Identifier{s.name + "_created_at_idx"}.Sanitize()
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC, id DESC)`, created, s.table)); err != nil {
		return fmt.Errorf("create index on %s: %w", s.name, err)
	}

	for _, idx := range indexes {
		exprs := make([]string, 0, len(idx.Keys))
		for _, k := range idx.Keys {
			if k == "createdAt" {
				exprs = append(exprs, "created_at")
				continue
			}
			exprs = append(exprs, fmt.Sprintf("(doc #> %s)", pathLiteral(k)))
		}
		name := idx.Name
		if name == "" {
			name = s.name + "_" + strings.ReplaceAll(strings.Join(idx.Keys, "_"), ".", "_") + "_idx"
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmt := fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)`,
			unique, pgx.Identifier{name}.Sanitize(), s.table, strings.Join(exprs, ", "))
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}

func (s *PostgresStore[T, P]) Insert(ctx context.Context, doc *T) error {
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return err
	}
	p := P(doc)
	_, err = s.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, created_at, doc) VALUES ($1, $2, $3::jsonb)`, s.table),
		p.GetID().Hex(), p.GetCreatedAt(), string(data))
	return mapPgError(err)
}

func (s *PostgresStore[T, P]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, s.table), id.Hex())
	var data []byte
	if err := row.Scan(&data); err != nil {
		return nil, mapPgError(err)
	}
	return decodeExtJSON[T](data)
}

func (s *PostgresStore[T, P]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	docs, err := s.Find(ctx, filter, FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, desk_errors.ErrNotFound
	}
	return &docs[0], nil
}

func (s *PostgresStore[T, P]) Find(ctx context.Context, filter Filter, opts FindOptions) ([]T, error) {
	where, args, err := pgWhere(filter)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT doc FROM %s%s ORDER BY created_at DESC, id DESC`, s.table, where)
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, mapPgError(err)
	}
	out := make([]T, 0, len(raw))
	for _, data := range raw {
		doc, err := decodeExtJSON[T](data)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (s *PostgresStore[T, P]) Count(ctx context.Context, filter Filter) (int64, error) {
	where, args, err := pgWhere(filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s%s`, s.table, where), args...).Scan(&n); err != nil {
		return 0, mapPgError(err)
	}
	return n, nil
}

func (s *PostgresStore[T, P]) Replace(ctx context.Context, doc *T) error {
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = $2::jsonb WHERE id = $1`, s.table),
		P(doc).GetID().Hex(), string(data))
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return desk_errors.ErrNotFound
	}
	return nil
}

func (s *PostgresStore[T, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id.Hex())
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return desk_errors.ErrNotFound
	}
	return nil
}

func (s *PostgresStore[T, P]) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func decodeExtJSON[T any](data []byte) (*T, error) {
	var doc T
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// pgWhere renders filter as jsonb path comparisons. Values are encoded with
// the same extended JSON encoder as the stored documents so equality holds.
func pgWhere(filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		clauses []string
		args    []any
	)
	for _, k := range keys {
		if k == "_id" {
			id, ok := filter[k].(primitive.ObjectID)
			if !ok {
				return "", nil, fmt.Errorf("filter on _id needs an ObjectID")
			}
			args = append(args, id.Hex())
			clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
			continue
		}
		value, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: filter[k]}}, false, false)
		if err != nil {
			return "", nil, fmt.Errorf("encode filter %s: %w", k, err)
		}
		args = append(args, strings.Split(k, "."), string(value))
		clauses = append(clauses, fmt.Sprintf("doc #> $%d::text[] = ($%d::jsonb -> 'v')", len(args)-1, len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func pathLiteral(key string) string {
	parts := strings.Split(key, ".")
	return "'{" + strings.ReplaceAll(strings.Join(parts, ","), "'", "''") + "}'"
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return desk_errors.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
