// Package driving provides interfaces for external actors (primary/inbound
// ports): the ingestion orchestrator and the search reconciler as seen by the
// HTTP API, the CLI and the TUI.
package driving
