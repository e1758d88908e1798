// Package chapter models a single unit of serialized content (an archive
// file or a directory of loose pages) and parses structured metadata out of
// its filename: chapter numbers, release group, volume, and title.
//
// Parsing is an ordered cascade of regular expression rules applied after
// the owning series name has been stripped. Each rule consumes the span it
// matched so later, less specific rules cannot re-read the same text, and a
// field bound by an earlier rule is never overwritten. Filenames that yield
// neither a chapter number nor a volume fail with ErrParse.
package chapter
