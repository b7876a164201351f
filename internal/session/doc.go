// Package session holds the client-side authentication and wishlist state.
//
// A [Store] is constructed explicitly with the API it calls and the [TokenStore] it persists to, then
// hydrated once with [Store.Init]. Its state machine:
//
//	Loading ──Init, no token──────────► Unauthenticated
//	Loading ──Init, /auth/me has user──► Authenticated
//	Loading ──Init, anything else──────► Unauthenticated (token discarded)
//	Unauthenticated ──Login/Register ok──► Authenticated
//	any ──Logout──► Unauthenticated
//
// Wishlist mutators fail fast with [LoginRequired] when no user is signed in. Otherwise they call the
// API and only touch local state once the server confirms with a "message".
package session
