// Package rag builds a static nearest-neighbor index over a small slang
// corpus and retrieves the fragments most similar to a query. The index is
// built once in the background and is read-only afterwards; every failure
// mode degrades to empty retrieval rather than an error.
package rag

import "strings"

// Fragment is an immutable piece of the knowledge corpus.
type Fragment struct {
	Text string
}

// DefaultFragmentSize is the target fragment length in characters.
const DefaultFragmentSize = 100

// SplitCorpus splits corpus text into fragments of roughly size characters.
// Splitting happens only on line boundaries and fragments do not overlap.
// Lines longer than size become fragments of their own. Blank lines are
// separators, never content.
func SplitCorpus(text string, size int) []Fragment {
	if size <= 0 {
		size = DefaultFragmentSize
	}

	var fragments []Fragment
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			fragments = append(fragments, Fragment{Text: current.String()})
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(line) > size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()

	return fragments
}
