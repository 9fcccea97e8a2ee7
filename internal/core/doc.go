// Package core provides the tabular data engine behind the grid editor.
//
// The package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, import tools, or tests without
// modification.
//
// # Architecture
//
// A [Grid] owns two collections and a state machine:
//
//   - Column Registry: built-in and custom columns, their stable field keys,
//     labels, declared [FieldType], and widths. Metadata and widths are kept
//     in index-aligned slices updated by the same operation.
//   - Row Store: the ordered rows. Position controls iteration order; the
//     row id is identity and is allocated as max(existing ids) + 1.
//   - Selection: Idle, Single, Multi or Editing, see [Grid.Selection].
//
// Reads go through the view pipeline, a pure function of the rows and a
// caller-owned [ViewSpec]:
//
//	view, err := core.DeriveView(grid.Rows(), spec) // filter, then stable sort
//	ann := core.Annotate(view, fields, spec.SearchTerm)
//
// [Grid.Project] bundles both with header metadata and selection state for
// a renderer.
//
// # Mutations
//
// Every mutation either applies fully or returns an error and leaves the
// grid unchanged. Deleting a row or column that the selection or edit
// references returns the state machine to Idle.
//
// # Concurrency
//
// A Grid is single-threaded. Callers that share one across goroutines must
// serialize access, as the session package does.
//
// # Error Handling
//
// Engine errors are sentinels such as [ErrRowNotFound], wrapped with the
// offending id or key. [MapError] turns any error into a [UserMessage] with a
// support code (GRID, SES, FILE, RATE).
package core
