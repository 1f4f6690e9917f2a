// Package stores provides the persistence layer for the upload macro.
//
// Three JSON stores share an atomic load/mutate/persist contract: [Ledger]
// (account → folder assignment and quota counter), [History] (per-account set
// of confirmed uploads) and [Catalog] (per-folder candidate entries produced
// by the extraction pipeline). Every mutation rewrites the whole file through
// a temp-file rename so a crash mid-write never corrupts the store.
//
// [Journal] is a SQLite-backed run log for operational reporting. It is
// best-effort only; journal failures never abort an upload run.
//
// All stores are single-writer by construction: one process, one goroutine.
package stores
