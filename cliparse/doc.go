// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: Store connection string (default: mongodb://localhost:27017/formbuilder)
  - DatabaseType: mongo, postgres or sqlite (default: inferred from DatabaseURL)
  - ClientOrigin: The one origin allowed by CORS (default: http://localhost:3000)
  - TokenSecret: HMAC secret for session tokens (default: a development secret)
  - TokenTTL: Session token lifetime (default: 720h)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-origin        Allowed cross-origin caller
	-token-secret  Session token secret
	-token-ttl     Session token lifetime

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	CLIENT_ORIGIN → -origin
	TOKEN_SECRET  → -token-secret
	TOKEN_TTL     → -token-ttl

A .env file in the working directory is loaded before the environment is read.
Variables already set in the environment are not overwritten by it.

CLI flags take precedence over environment variables.
*/
package cliparse
