// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table.

Routes use Go 1.22+ method-and-pattern syntax on the standard ServeMux.
Handlers receive their dependencies (database, poll store, realtime hub)
once at construction:

	mux := router.NewRouter(db, st, hub)

All JSON endpoints are wrapped with request logging. The websocket endpoint
is not: its lifetime is the whole subscription, which would make the
completion log line meaningless.
*/
package router
