package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidCursor = errors.New("invalid cursor")
)

// Keyed é o armazenamento durável de documentos JSON por (kind, id).
// Nenhum registro é removido fisicamente no design atual.
type Keyed interface {
	Exists(ctx context.Context, kind, id string) (bool, error)
	// Read retorna o documento gravado; ok=false quando o id nunca foi escrito
	Read(ctx context.Context, kind, id string) (doc json.RawMessage, ok bool, err error)
	// Write sobrescreve o documento inteiro do id
	Write(ctx context.Context, kind, id string, doc json.RawMessage) error
	// Patch faz merge raso dos campos de partial sobre o documento existente
	// e persiste o resultado. Campos ausentes em partial ficam intocados.
	// Retorna ErrNotFound se o id nunca foi escrito.
	Patch(ctx context.Context, kind, id string, partial json.RawMessage) error
}

// Index é a sequência ordenada e durável de ids de um kind.
// Appends concorrentes no mesmo kind são linearizados pelo backend.
type Index interface {
	// Append adiciona o id ao fim da sequência; idempotente por id
	Append(ctx context.Context, kind, id string) error
	// List retorna até limit ids depois de cursor, na ordem de inserção.
	// next é nil quando o fim da sequência foi alcançado.
	List(ctx context.Context, kind string, cursor *string, limit int) (ids []string, next *string, err error)
	IsEmpty(ctx context.Context, kind string) (bool, error)
}

// Atomic grava documento + entrada de índice como uma unidade observável:
// um leitor nunca vê o id no índice sem o documento legível.
type Atomic interface {
	// CreateIndexed é idempotente por id: repetir a chamada não duplica o
	// índice nem sobrescreve um documento já gravado (requisito do seeding)
	CreateIndexed(ctx context.Context, kind, id string, doc json.RawMessage) error
}

// Backend reúne os três contratos; Postgres e Memory implementam ambos.
type Backend interface {
	Keyed
	Index
	Atomic
}
