package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Kind descreve um tipo de entidade: nome do índice, valor inicial,
// registros de seed e limite padrão de paginação.
type Kind[T any] struct {
	Name         string
	DefaultLimit int
	Initial      T
	Seeds        func() []T
	ID           func(T) string
}

// Page é uma página de listagem; Cursor nil indica fim da sequência.
type Page[T any] struct {
	Items  []T     `json:"items"`
	Cursor *string `json:"cursor"`
}

// Entity compõe o keyed store com o índice ordenado de um kind:
// seeding idempotente, criação atômica (doc + índice) e listagem paginada.
type Entity[T any] struct {
	kind Kind[T]
	be   Backend
}

func NewEntity[T any](be Backend, kind Kind[T]) *Entity[T] {
	return &Entity[T]{kind: kind, be: be}
}

// EnsureSeed grava os registros de seed quando o índice do kind está vazio.
// Seguro pra chamar em toda requisição; dois chamadores correndo num índice
// vazio ainda resultam em exatamente uma entrada por registro, porque
// CreateIndexed é idempotente por id.
func (e *Entity[T]) EnsureSeed(ctx context.Context) error {
	empty, err := e.be.IsEmpty(ctx, e.kind.Name)
	if err != nil {
		return err
	}
	if !empty || e.kind.Seeds == nil {
		return nil
	}

	for _, rec := range e.kind.Seeds() {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal seed %s: %w", e.kind.Name, err)
		}
		if err := e.be.CreateIndexed(ctx, e.kind.Name, e.kind.ID(rec), doc); err != nil {
			return err
		}
	}
	return nil
}

// Create grava o registro e anexa o id ao índice como uma unidade atômica.
// O id já vem no registro (gerado pelo chamador via uuid).
func (e *Entity[T]) Create(ctx context.Context, rec T) (T, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return e.kind.Initial, fmt.Errorf("marshal %s: %w", e.kind.Name, err)
	}
	if err := e.be.CreateIndexed(ctx, e.kind.Name, e.kind.ID(rec), doc); err != nil {
		return e.kind.Initial, err
	}
	return rec, nil
}

// List resolve os ids pelo índice e lê cada registro.
// limit <= 0 usa o limite padrão do kind.
func (e *Entity[T]) List(ctx context.Context, cursor *string, limit int) (Page[T], error) {
	if limit <= 0 {
		limit = e.kind.DefaultLimit
	}

	ids, next, err := e.be.List(ctx, e.kind.Name, cursor, limit)
	if err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		rec, err := e.Get(ctx, id)
		if err != nil {
			return Page[T]{}, err
		}
		items = append(items, rec)
	}

	return Page[T]{Items: items, Cursor: next}, nil
}

func (e *Entity[T]) Exists(ctx context.Context, id string) (bool, error) {
	return e.be.Exists(ctx, e.kind.Name, id)
}

// Get retorna o registro gravado, ou o valor inicial do kind quando o id
// nunca foi escrito (chamadores distinguem via Exists).
func (e *Entity[T]) Get(ctx context.Context, id string) (T, error) {
	doc, ok, err := e.be.Read(ctx, e.kind.Name, id)
	if err != nil {
		return e.kind.Initial, err
	}
	if !ok {
		return e.kind.Initial, nil
	}

	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		return e.kind.Initial, fmt.Errorf("unmarshal %s/%s: %w", e.kind.Name, id, err)
	}
	return rec, nil
}

// Patch aplica merge raso dos campos dados e retorna o estado atualizado.
func (e *Entity[T]) Patch(ctx context.Context, id string, partial map[string]any) (T, error) {
	p, err := json.Marshal(partial)
	if err != nil {
		return e.kind.Initial, fmt.Errorf("marshal patch %s/%s: %w", e.kind.Name, id, err)
	}
	if err := e.be.Patch(ctx, e.kind.Name, id, p); err != nil {
		return e.kind.Initial, err
	}
	return e.Get(ctx, id)
}
