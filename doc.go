// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Form API server.

Quickly Form is a form builder backend: accounts design forms made of
arbitrary field definitions, share them by ID, and collect responses from
anyone who has the link.

# Starting the Server

With no configuration the server listens on port 5000 and connects to a
local MongoDB:

	go run .

Or with flags:

	go run . -p 5000 -d "postgres://..." -origin https://forms.example.com

A .env file in the working directory is loaded if present.

# Configuration

  - PORT (-p): Server port (default: 5000)
  - DATABASE_URL (-d): MongoDB, PostgreSQL or SQLite connection string
    (default: mongodb://localhost:27017/formbuilder)
  - DATABASE_TYPE (-t): mongo, postgres or sqlite (default: inferred from URL)
  - CLIENT_ORIGIN (-origin): Allowed CORS origin (default: http://localhost:3000)
  - TOKEN_SECRET (-token-secret): HMAC key for session tokens
  - TOKEN_TTL (-token-ttl): Session token lifetime (default: 720h)

# Architecture

  - handlers: HTTP request handlers (accounts, forms, responses)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, bearer token gate, JSON helpers
  - models: Request/response and stored record types
  - auth: IDs, password hashing, signed session tokens
  - db: Store interface with MongoDB and SQL backends
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
