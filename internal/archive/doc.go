// Package archive packages a directory of loose page files into a single
// compressed container, applying the same minimum-size and ignore filters
// the sync engine uses for individual files.
package archive
