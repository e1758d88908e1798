package catalog

import "strings"

// Class is the outcome of classifying one directory's immediate contents.
type Class int

const (
	// ClassUnknown means the directory is neither a series nor evidence of
	// one; the walker keeps recursing.
	ClassUnknown Class = iota
	// ClassSeries means the directory itself is a series and its archives
	// are its chapters.
	ClassSeries
	// ClassParent means the directory holds loose page images, so the
	// series is the directory one level up.
	ClassParent
)

var archiveExts = map[string]struct{}{
	"tgz": {}, "tar": {}, "cbz": {}, "tbz": {}, "gz": {},
	"rar": {}, "zip": {}, "7z": {}, "xz": {},
}

var imageExts = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {},
}

// IsArchive reports whether the file name carries an archive extension.
func IsArchive(name string) bool {
	_, ok := archiveExts[extension(name)]
	return ok
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Classify applies the content-count heuristic to a directory listing.
// More archives than images (and at least one archive) marks the directory
// itself a series; more than three loose images marks the parent as the
// series. Pure function: no catalog state is touched.
func Classify(entries []Entry) Class {
	archives, images := 0, 0
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		ext := extension(e.Name)
		if _, ok := archiveExts[ext]; ok {
			archives++
		}
		if _, ok := imageExts[ext]; ok {
			images++
		}
	}
	if archives > images && archives >= 1 {
		return ClassSeries
	}
	if images > 3 {
		return ClassParent
	}
	return ClassUnknown
}
