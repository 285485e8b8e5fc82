// Package domain defines the core business types for the phishing-simulation
// platform.
//
// Types in this package are pure value objects with no behavior, no database
// dependencies, and no HTTP concerns. They are the shared language between
// handlers, services, and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB/validate tags are allowed (they're metadata, not behavior)
//   - Every tenant-owned type carries OrganizationID
//   - Insert* types are the create shapes, *Update types are partial merges
//     where a nil pointer means "leave unchanged"
package domain
