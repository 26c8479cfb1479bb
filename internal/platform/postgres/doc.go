// Package postgres implements the store interfaces against PostgreSQL using
// database/sql with the pgx stdlib driver. Stores accept a store.DBTX so
// the same implementation runs on a pool or inside a transaction.
package postgres
