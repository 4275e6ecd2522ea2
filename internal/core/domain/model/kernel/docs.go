// Package kernel contains the shared value objects of the dispatch domain:
// UUID identifiers and geographic points. All kernel types are immutable and
// validated at construction, so domain aggregates can rely on them without
// re-checking invariants.
package kernel
