// Command seriesync mirrors chaptered series between two directory trees.
// It scans source and destination, infers series and chapter numbers from
// file and directory names, and copies only what the destination is missing.
package main
