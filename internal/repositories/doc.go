// Package repositories implements SQLite persistence for local client state.
//
// Key Implementations:
//   - [SettingRepository] : durable key-value rows in the settings table
//   - [TokenStoreAdapter] : the auth token slot, stored under [TokenKey]
//   - [ComparisonRepository] : a local log of comparisons run from this machine
//
// The token slot is the only state the client must keep across restarts. It is written on login or
// registration, read at session start and on every API request, and deleted on logout or when the
// server rejects it.
package repositories
