// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-form/auth"
	"github.com/danielhkuo/quickly-form/models"
)

// SQLStore keeps each record in one row, with list and opaque fields held
// as JSON columns
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// DB exposes the underlying connection, mainly for tests
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (s *SQLStore) CreateAccount(ctx context.Context, account *models.Account) error {
	account.ID = auth.GenerateID()
	account.CreatedAt = s.now()
	if account.Responses == nil {
		account.Responses = []string{}
	}

	responses, err := json.Marshal(account.Responses)
	if err != nil {
		return fmt.Errorf("failed to encode account responses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO account (id, username, password_hash, form_id, responses, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), account.ID, account.Username, account.PasswordHash, nullString(account.FormID), string(responses), account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *SQLStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.queryAccount(ctx, "id", id)
}

func (s *SQLStore) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.queryAccount(ctx, "username", username)
}

func (s *SQLStore) queryAccount(ctx context.Context, column, value string) (*models.Account, error) {
	var (
		account   models.Account
		formID    sql.NullString
		responses []byte
		createdAt scanTime
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, username, password_hash, form_id, responses, created_at
		FROM account
		WHERE `+column+` = ?
		ORDER BY created_at
		LIMIT 1
	`), value).Scan(&account.ID, &account.Username, &account.PasswordHash, &formID, &responses, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	account.FormID = formID.String
	account.CreatedAt = createdAt.Time
	if err := decodeIDs(responses, &account.Responses); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *SQLStore) CreateForm(ctx context.Context, form *models.Form) error {
	form.ID = auth.GenerateID()
	form.CreatedAt = s.now()
	form.UpdatedAt = form.CreatedAt
	if form.FormData == nil {
		form.FormData = []json.RawMessage{}
	}
	if form.Responses == nil {
		form.Responses = []string{}
	}

	formData, err := encodeFormData(form.FormData)
	if err != nil {
		return err
	}
	responses, err := json.Marshal(form.Responses)
	if err != nil {
		return fmt.Errorf("failed to encode form responses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO form (id, owner_id, title, form_data, responses, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), form.ID, form.OwnerID, form.Title, string(formData), string(responses), form.CreatedAt, form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert form: %w", err)
	}
	return nil
}

const formColumns = `id, owner_id, title, form_data, responses, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*models.Form, error) {
	var (
		form      models.Form
		formData  []byte
		responses []byte
		createdAt scanTime
		updatedAt scanTime
	)
	if err := row.Scan(&form.ID, &form.OwnerID, &form.Title, &formData, &responses, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	form.CreatedAt = createdAt.Time
	form.UpdatedAt = updatedAt.Time
	if err := json.Unmarshal(formData, &form.FormData); err != nil {
		return nil, fmt.Errorf("failed to decode form data: %w", err)
	}
	if form.FormData == nil {
		form.FormData = []json.RawMessage{}
	}
	if err := decodeIDs(responses, &form.Responses); err != nil {
		return nil, err
	}
	return &form, nil
}

func (s *SQLStore) GetForm(ctx context.Context, id string) (*models.Form, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+formColumns+` FROM form WHERE id = ?`), id)
	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query form: %w", err)
	}
	return form, nil
}

func (s *SQLStore) ListFormsByOwner(ctx context.Context, ownerID string) ([]models.Form, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+formColumns+`
		FROM form
		WHERE owner_id = ?
		ORDER BY created_at, id
	`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forms: %w", err)
	}
	defer rows.Close()

	forms := make([]models.Form, 0)
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		forms = append(forms, *form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate forms: %w", err)
	}
	return forms, nil
}

func (s *SQLStore) UpdateForm(ctx context.Context, id, title string, formData []json.RawMessage) (*models.Form, error) {
	encoded, err := encodeFormData(formData)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE form
		SET title = ?, form_data = ?, updated_at = ?
		WHERE id = ?
	`), title, string(encoded), s.now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	if err := requireAffected(result, "update form"); err != nil {
		return nil, err
	}

	return s.GetForm(ctx, id)
}

func (s *SQLStore) DeleteForm(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM form WHERE id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete form: %w", err)
	}
	// ErrNotFound here means it was deleted by someone else in between
	if err := requireAffected(result, "delete form"); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *SQLStore) CreateResponse(ctx context.Context, response *models.Response) error {
	data, err := encodeValue(response.ResponseData)
	if err != nil {
		return fmt.Errorf("failed to encode response data: %w", err)
	}
	response.ID = auth.GenerateID()
	response.CreatedAt = s.now()
	response.ResponseData = data

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO response (id, form_id, response_data, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), response.ID, response.FormID, string(data), response.Name, response.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

// AppendFormResponse adds the response ID to the form's list in a single
// statement, so concurrent submissions do not lose each other's IDs
func (s *SQLStore) AppendFormResponse(ctx context.Context, formID, responseID string) error {
	query := `UPDATE form SET responses = json_insert(responses, '$[#]', ?) WHERE id = ?`
	if s.dialect == DialectPostgres {
		query = `UPDATE form SET responses = responses || jsonb_build_array(?::text) WHERE id = ?`
	}

	result, err := s.db.ExecContext(ctx, s.rebind(query), responseID, formID)
	if err != nil {
		return fmt.Errorf("failed to append form response: %w", err)
	}
	return requireAffected(result, "append form response")
}

func (s *SQLStore) ListResponsesByForm(ctx context.Context, formID string) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, form_id, response_data, name, created_at
		FROM response
		WHERE form_id = ?
		ORDER BY created_at, id
	`), formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	responses := make([]models.Response, 0)
	for rows.Next() {
		var (
			response  models.Response
			data      []byte
			createdAt scanTime
		)
		if err := rows.Scan(&response.ID, &response.FormID, &data, &response.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		response.ResponseData = json.RawMessage(data)
		response.CreatedAt = createdAt.Time
		responses = append(responses, response)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate responses: %w", err)
	}
	return responses, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// requireAffected maps a statement that touched no rows to ErrNotFound
func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func decodeIDs(b []byte, out *[]string) error {
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to decode id list: %w", err)
	}
	if *out == nil {
		*out = []string{}
	}
	return nil
}

// scanTime accepts the timestamp representations returned by both drivers
type scanTime struct {
	Time time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *scanTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case int64:
		t.Time = time.Unix(v, 0).UTC()
		return nil
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *scanTime) parse(s string) error {
	// time.Time.String() output carries a monotonic clock suffix
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
