package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

// Postgres implementa Backend sobre as tabelas entity_records / entity_index.
// A atomicidade de create (doc + índice) vem de uma transação.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) Exists(ctx context.Context, kind, id string) (bool, error) {
	var ok bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM entity_records WHERE kind=$1 AND id=$2)`, kind, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists %s/%s: %w", kind, id, err)
	}
	return ok, nil
}

func (p *Postgres) Read(ctx context.Context, kind, id string) (json.RawMessage, bool, error) {
	var doc []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT doc FROM entity_records WHERE kind=$1 AND id=$2`, kind, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s/%s: %w", kind, id, err)
	}
	return doc, true, nil
}

func (p *Postgres) Write(ctx context.Context, kind, id string, doc json.RawMessage) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO entity_records (kind, id, doc) VALUES ($1,$2,$3)
		ON CONFLICT (kind, id) DO UPDATE SET doc=EXCLUDED.doc, updated_at=NOW()`,
		kind, id, []byte(doc))
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", kind, id, err)
	}
	return nil
}

// Patch usa o merge raso do jsonb (doc || partial); last-write-wins por linha
func (p *Postgres) Patch(ctx context.Context, kind, id string, partial json.RawMessage) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE entity_records SET doc = doc || $3::jsonb, updated_at=NOW()
		WHERE kind=$1 AND id=$2`,
		kind, id, []byte(partial))
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Append(ctx context.Context, kind, id string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO entity_index (kind, record_id) VALUES ($1,$2)
		ON CONFLICT (kind, record_id) DO NOTHING`, kind, id)
	if err != nil {
		return fmt.Errorf("append %s/%s: %w", kind, id, err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, kind string, cursor *string, limit int) ([]string, *string, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, nil, err
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT seq, record_id FROM entity_index
		WHERE kind=$1 AND seq > $2
		ORDER BY seq ASC
		LIMIT $3`, kind, after, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var ids []string
	var lastSeq int64
	for rows.Next() {
		var id string
		if err := rows.Scan(&lastSeq, &id); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return ids, nextCursor(len(ids), limit, lastSeq), nil
}

func (p *Postgres) IsEmpty(ctx context.Context, kind string) (bool, error) {
	var any bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM entity_index WHERE kind=$1)`, kind).Scan(&any)
	if err != nil {
		return false, fmt.Errorf("isempty %s: %w", kind, err)
	}
	return !any, nil
}

func (p *Postgres) CreateIndexed(ctx context.Context, kind, id string, doc json.RawMessage) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// ON CONFLICT DO NOTHING nos dois inserts torna a operação idempotente
	// por id, o que fecha a corrida de dois seeds simultâneos num kind vazio
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO entity_records (kind, id, doc) VALUES ($1,$2,$3)
		ON CONFLICT (kind, id) DO NOTHING`, kind, id, []byte(doc)); err != nil {
		return fmt.Errorf("create record %s/%s: %w", kind, id, err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO entity_index (kind, record_id) VALUES ($1,$2)
		ON CONFLICT (kind, record_id) DO NOTHING`, kind, id); err != nil {
		return fmt.Errorf("create index %s/%s: %w", kind, id, err)
	}

	return tx.Commit()
}

// cursor é o seq decimal da última linha retornada; opaco pro cliente
func decodeCursor(cursor *string) (int64, error) {
	if cursor == nil || *cursor == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(*cursor, 10, 64)
	if err != nil || n < 0 {
		return 0, ErrInvalidCursor
	}
	return n, nil
}

func nextCursor(count, limit int, lastSeq int64) *string {
	if count < limit || count == 0 {
		return nil
	}
	c := strconv.FormatInt(lastSeq, 10)
	return &c
}
