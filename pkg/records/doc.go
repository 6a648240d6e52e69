// Package records implements the Record Store: the shared, ordered sequence of
// completed rentals, with date filtering, search, grouping and CSV export.
//
// Every mutation rewrites the whole sequence through a ports.RecordBackend
// while holding the store mutex, so concurrent appends and edits from different
// conversations never lose updates.
package records
