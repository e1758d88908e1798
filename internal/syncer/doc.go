// Package syncer computes which chapters exist in a source catalog but not
// in a destination catalog and replicates the missing ones.
//
// Matching pairs a source series with the first destination series whose
// name or alias matches. Missing-ness is decided purely by chapter number;
// a destination chapter under any group or volume counts as present. Each
// series carries its own soft-failure budget: conflicts are tolerated up to
// the give-up threshold, a vanished source aborts the rest of that series,
// and neither ever aborts the run. Everything is accumulated into a Report.
package syncer
