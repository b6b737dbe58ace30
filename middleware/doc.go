// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Request Logging

WithLogging wraps a handler with start/completion slog lines including
method, path, and duration.

# JSON Helpers

JSONResponse and ErrorResponse write consistent JSON bodies; ParseJSONBody
decodes request bodies.

# Client Identity

Clients carry an opaque id in the client_id HttpOnly cookie. ClientID reads
it from a request; SetClientCookie issues it. The set-name endpoint is the
only place a new id is minted; every other endpoint treats a missing cookie
as unauthenticated.

# CORS

CORS reflects the request origin and allows credentials, so the browser
frontend on another port can send the identity cookie.
*/
package middleware
