// Package itemstore is the sidecar's SQLite-backed item storage.
//
// Items live in the database file named by LUMO_DB_PATH. The schema is
// managed by embedded goose migrations applied on Open.
package itemstore
