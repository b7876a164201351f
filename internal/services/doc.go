// Package services implements the travel API client in two layers.
//
// # Raw Layer
//
// [APIService] issues JSON HTTP requests against a base URL (default [DefaultBaseURL]) and returns
// [APIResponse] values without inspecting the status code. A [TokenSource] is consulted on every
// request: a stored token becomes an "Authorization: Bearer" header, and no token means no header.
// Requests other than GET carry "Content-Type: application/json".
//
// # Typed Layer
//
// [TravelClient] implements [Travel], one method per endpoint. Each method returns a tagged [Result]:
//   - [FamilyAuth] : login and register succeed iff the body carries "token"
//   - [FamilyMutation] : wishlist add/remove succeed iff the body carries "message"
//   - [FamilyData] : everything else succeeds unless the body carries "error"
//
// Callers check [Result.OK] and decode payloads with [Result.Decode]; no other package sniffs
// response shapes.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure (DNS, refused connection, timeout, read error)
//   - [shared.ErrDecodeResponse] : body was not JSON or did not match the requested type
//   - [shared.ErrMissingArgument] : a required path parameter was empty
//
// Server-reported failures are never Go errors. Nothing is retried.
package services
