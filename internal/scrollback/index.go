package scrollback

import (
	"regexp"
	"strings"
)

// trigramIndex maps every 3-rune substring seen in any indexed line to the
// set of absolute line indices containing it. It is a candidate filter
// only: Search always re-verifies each candidate against the actual line
// text, so a bug in the index can only make search slower, never produce a
// false negative (spec §5 "no false negatives").
type trigramIndex struct {
	postings map[string]map[int]struct{}
}

func newTrigramIndex() *trigramIndex {
	return &trigramIndex{postings: make(map[string]map[int]struct{})}
}

func (idx *trigramIndex) add(lineIndex int, text string) {
	for _, tri := range trigrams(text) {
		set := idx.postings[tri]
		if set == nil {
			set = make(map[int]struct{})
			idx.postings[tri] = set
		}
		set[lineIndex] = struct{}{}
	}
}

func trigrams(s string) []string {
	r := []rune(s)
	if len(r) < 3 {
		return nil
	}
	out := make([]string, 0, len(r)-2)
	for i := 0; i+3 <= len(r); i++ {
		out = append(out, string(r[i:i+3]))
	}
	return out
}

// candidates returns the set of line indices that contain every trigram of
// pattern, or nil (meaning "no filtering possible, caller must scan
// everything") if pattern is too short to trigram.
func (idx *trigramIndex) candidates(pattern string) (map[int]struct{}, bool) {
	tris := trigrams(pattern)
	if len(tris) == 0 {
		return nil, false
	}
	var result map[int]struct{}
	for _, tri := range tris {
		set := idx.postings[tri]
		if len(set) == 0 {
			return map[int]struct{}{}, true // no line has this trigram at all
		}
		if result == nil {
			result = make(map[int]struct{}, len(set))
			for i := range set {
				result[i] = struct{}{}
			}
			continue
		}
		for i := range result {
			if _, ok := set[i]; !ok {
				delete(result, i)
			}
		}
	}
	return result, true
}

// Search returns the absolute line indices whose text contains pattern as a
// plain substring (case-sensitive).
func (s *Store) Search(pattern string) []int {
	if pattern == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cand, filtered := s.index.candidates(pattern)
	if filtered {
		var out []int
		for i := range cand {
			if text := lineText(s.lineLocked(i)); strings.Contains(text, pattern) {
				out = append(out, i)
			}
		}
		return sortedInts(out)
	}

	// Pattern too short to trigram: fall back to a full linear scan, which
	// by construction cannot miss a match either.
	var out []int
	total := s.totalLenLocked()
	for i := 0; i < total; i++ {
		if text := lineText(s.lineLocked(i)); strings.Contains(text, pattern) {
			out = append(out, i)
		}
	}
	return out
}

// SearchRegex returns the absolute line indices whose text matches the
// compiled regular expression. The trigram index can only help when the
// expression has a required literal substring of length >= 3; otherwise
// this falls back to a full scan.
func (s *Store) SearchRegex(re *regexp.Regexp, literalHint string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if literalHint != "" {
		if cand, filtered := s.index.candidates(literalHint); filtered {
			var out []int
			for i := range cand {
				if re.MatchString(lineText(s.lineLocked(i))) {
					out = append(out, i)
				}
			}
			return sortedInts(out)
		}
	}

	var out []int
	total := s.totalLenLocked()
	for i := 0; i < total; i++ {
		if re.MatchString(lineText(s.lineLocked(i))) {
			out = append(out, i)
		}
	}
	return out
}

func sortedInts(xs []int) []int {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
	return xs
}
