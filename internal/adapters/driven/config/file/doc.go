// Package file provides the TOML-backed configuration store.
//
// Settings live in config.toml inside the payroll config directory
// (~/.payroll by default). Keys use dot notation in memory and are
// written back as nested TOML tables, so "storage.backend" becomes
// the backend key of a [storage] table.
package file
