// Package ranges provides the numeric chapter-range math used by the
// catalog: expanding a start/end pair into the individual chapter numbers it
// covers (including fractional sub-chapters like 4.1) and condensing a set
// of numbers back into minimal inclusive spans for gap reporting.
package ranges
