// Package catalog maintains the in-memory registry of series discovered
// under a directory tree.
//
// A Catalog owns exactly one Series per resolved directory plus the
// per-path listing cache used during a run. The Scanner walks a tree
// depth-first and classifies directories with a content-count heuristic
// (archives make a series; a pile of loose page images promotes the parent).
// Manifests persist series metadata between runs so a tree that has already
// been described can skip the heuristic entirely.
package catalog
