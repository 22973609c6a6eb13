package fsglob

// Static is a Globber backed by a fixed pattern -> paths table, for tests
// that must not touch a real filesystem. Unknown patterns yield no matches.
type Static struct {
	Matches map[string][]string
}

func (s Static) Glob(root, pattern string) ([]string, error) {
	paths := s.Matches[pattern]
	out := make([]string, len(paths))
	copy(out, paths)
	return out, nil
}
