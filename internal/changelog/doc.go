// Package changelog maintains a Keep a Changelog formatted CHANGELOG.md.
//
// This package implements:
//   - Categorization of conventional commits into Keep a Changelog sections
//   - Rendering of a dated release section for a new version
//   - Merging a release section into an existing document, newest first
//   - Parsing and querying an existing CHANGELOG.md for display
//   - Linting the blank-line and whitespace rules the renderer guarantees
//
// The Markdown document is the single source of truth. Every write is one
// read followed by one full rewrite of the file.
package changelog
