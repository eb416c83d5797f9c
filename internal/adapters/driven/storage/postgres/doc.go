// Package postgres provides a PostgreSQL implementation of driven.RecordStore
// for deployments that already run a database server.
//
// The collection is kept as one snapshot table. SaveAll truncates and
// refills it with COPY inside a transaction.
package postgres
