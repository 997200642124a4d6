// Package doctext crawls a documentation site on a single origin and
// flattens every reachable page into a plain-text artifact on disk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package doctext
