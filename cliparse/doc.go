// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and environment
variables.

# Precedence

CLI flags win over environment variables, which win over defaults:

	go run main.go -p 3001 -d "postgres://..." -t postgres

Environment fallbacks: PORT, DATABASE_URL, DATABASE_TYPE. A .env file is
loaded by main before parsing, so dotenv entries behave like environment
variables.

# Database Selection

DATABASE_TYPE selects the driver: "sqlite" (modernc.org/sqlite, the dev
default with a local file database) or "postgres" (lib/pq, which requires an
explicit DATABASE_URL). Config.DriverName maps the type to the registered
sql driver name.
*/
package cliparse
