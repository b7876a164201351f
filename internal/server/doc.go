// Package server provides HTTP routing, middleware, and a stub of the travel API for offline use and tests.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] registered first runs first: [NewStubRouter] installs recovery, then request logging, then CORS.
//
// [BasicRouter] registers "METHOD /path" patterns on an [http.ServeMux], which answers 405 on a method mismatch.
//
// # Stub API
//
// [StubHandler] serves every travel API route under /api with canned, deterministic payloads:
// comparisons score each criterion from a hash of the destination name, itineraries expand to the
// requested duration, and highlights are templated per destination.
//
// Accounts live in memory. Passwords are bcrypt hashed and sessions are HS256 JWTs carrying
// user_id, iat and exp, so the client's bearer handling and token expiry can be exercised end to end.
//
// Error bodies and status codes follow the production API: {"error": "..."} with 400 for missing
// fields, 401 for bad credentials or tokens, 404 for unknown itineraries and 409 for duplicates.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
