// Package store defines the persistence interfaces and sentinel errors the
// service layer depends on. Implementations live under internal/platform.
// Every interface accepts a DBTX-backed implementation so the same store can
// run against a connection pool or inside a transaction.
package store
