// Package importer bulk-loads targets into a group from an uploaded CSV.
//
// Parsing is all-or-nothing: a malformed file is rejected before any row is
// written. Row handling is not: each data row is validated and stored on its
// own, and a bad row is reported in the result without stopping the rest.
package importer
