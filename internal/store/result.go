package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *resultRepo) Save(ctx context.Context, res *StoredResult) error {
	if res.ID == "" {
		return fmt.Errorf("save result: empty id")
	}
	if len(res.Body) == 0 {
		return fmt.Errorf("save result %s: empty body", res.ID)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO generation_results (id, sequence, kind, created_at, body) VALUES (?, ?, ?, ?, ?)`,
		res.ID, seqNum, res.Kind, createdAt.UTC().UnixMilli(), string(res.Body))
	if err != nil {
		return fmt.Errorf("save result %s: %w", res.ID, err)
	}
	res.Sequence = seqNum
	return nil
}

func (r *resultRepo) Get(ctx context.Context, id string) (*StoredResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, sequence, kind, created_at, body FROM generation_results WHERE id = ?`, id)
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

func (r *resultRepo) List(ctx context.Context, opts ResultListOpts) ([]StoredResult, error) {
	q := `SELECT id, sequence, kind, created_at, body FROM generation_results`
	var args []any
	if opts.Kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, opts.Kind)
	}
	q += ` ORDER BY sequence DESC`
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func scanResult(s rowScanner) (*StoredResult, error) {
	var (
		res     StoredResult
		tsMilli int64
		body    string
	)
	if err := s.Scan(&res.ID, &res.Sequence, &res.Kind, &tsMilli, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}
	res.CreatedAt = time.UnixMilli(tsMilli).UTC()
	res.Body = []byte(body)
	return &res, nil
}
