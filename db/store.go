// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-form/cliparse"
	"github.com/danielhkuo/quickly-form/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// Store persists accounts, forms and responses
type Store interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	FindAccountByUsername(ctx context.Context, username string) (*models.Account, error)

	CreateForm(ctx context.Context, form *models.Form) error
	GetForm(ctx context.Context, id string) (*models.Form, error)
	ListFormsByOwner(ctx context.Context, ownerID string) ([]models.Form, error)
	UpdateForm(ctx context.Context, id, title string, formData []json.RawMessage) (*models.Form, error)
	DeleteForm(ctx context.Context, id string) (*models.Form, error)

	CreateResponse(ctx context.Context, response *models.Response) error
	AppendFormResponse(ctx context.Context, formID, responseID string) error
	ListResponsesByForm(ctx context.Context, formID string) ([]models.Response, error)

	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend named by cfg.DatabaseType and prepares it
func Open(ctx context.Context, cfg cliparse.Config) (Store, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabaseMongo:
		return OpenMongo(ctx, cfg.DatabaseURL)
	case cliparse.DatabasePostgres:
		return OpenSQL(ctx, DialectPostgres, cfg.DatabaseURL)
	case cliparse.DatabaseSQLite:
		return OpenSQL(ctx, DialectSQLite, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

// OpenSQL opens a database/sql backed store and creates its schema
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	conn, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// Every connection to ":memory:" is a separate database
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := CreateSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}

	return NewSQLStore(conn, dialect), nil
}

// encodeFormData marshals field definitions, storing a missing list as []
func encodeFormData(formData []json.RawMessage) ([]byte, error) {
	if formData == nil {
		formData = []json.RawMessage{}
	}
	b, err := json.Marshal(formData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form data: %w", err)
	}
	return b, nil
}

func encodeValue(v json.RawMessage) ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(v) {
		return nil, errors.New("invalid JSON value")
	}
	return v, nil
}
