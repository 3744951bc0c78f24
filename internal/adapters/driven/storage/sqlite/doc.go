// Package sqlite provides the SQLite-backed article metadata store.
//
// The store owns the articles table; the title column carries a UNIQUE
// constraint so concurrent ingestions racing on the same title resolve at
// insert time rather than via locking.
package sqlite
