package crawl

// seenTitles is the in-run deduplication set. It lives for exactly one run:
// the first occurrence of a title wins, later occurrences from any source
// are skipped, and the set is discarded when the run ends. Cross-run
// deduplication is the store's job via the title uniqueness constraint.
type seenTitles struct {
	titles map[string]struct{}
}

func newSeenTitles() *seenTitles {
	return &seenTitles{titles: make(map[string]struct{})}
}

// markSeen records the title and reports whether it was new to this run.
func (s *seenTitles) markSeen(title string) bool {
	if _, ok := s.titles[title]; ok {
		return false
	}
	s.titles[title] = struct{}{}
	return true
}
