// Package bible reconstructs a Book → Chapter → Verse tree from a flat,
// line-oriented scripture text and selects verses from it.
//
// # Input
//
// The corpus is newline-separated. Each trimmed, non-empty line is one of:
//
//	=== 1 ===          chapter marker (label "1")
//	== Genesis ==      book marker (name "Genesis")
//	1 In the beginning verse record (number 1)
//
// Anything else is ignored. Chapter markers are tested before book markers
// because every chapter marker also starts and ends with "==".
//
// # Building
//
// Lines are classified by Classify and folded by a Builder, which keeps at
// most one open Book and one open Chapter. A container is appended to its
// parent when the next boundary marker closes it, or when Finish is called.
// Chapters seen before any book and verses seen before any chapter are
// dropped; the parse never fails.
//
// # Example
//
//	corpus := bible.Parse(text)
//	p, err := bible.NewSelector(nil).Pick(corpus)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(bible.FormatPassage(p))
package bible
