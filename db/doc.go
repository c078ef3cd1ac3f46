// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists accounts, forms and responses.

# Store

Handlers depend on the Store interface. Open picks a backend from config:

	store, err := db.Open(ctx, cfg)
	defer store.Close()

Missing records are reported as ErrNotFound:

	form, err := store.GetForm(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		// 404
	}

# Backends

  - MongoStore: MongoDB collections accounts, forms, responses
  - SQLStore with DialectPostgres: JSONB columns via lib/pq
  - SQLStore with DialectSQLite: JSON text columns via modernc.org/sqlite

All backends generate string IDs with auth.GenerateID and store
formData/responseData without interpreting them.

# Schema Creation

SQL backends create their tables on open:

	if err := db.CreateSchema(ctx, conn, db.DialectPostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Relationships

	account 1──* form      (form.owner_id)
	form    1──* response  (response.form_id, and form.responses id list)

There are no foreign keys. A response is written before its ID is appended
to the form, so a failed append leaves an orphaned response behind.

# Indexes

  - account.username (not unique; uniqueness is checked on registration)
  - form.owner_id
  - response.form_id
*/
package db
