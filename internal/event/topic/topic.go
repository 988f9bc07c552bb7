package topic

import "strings"

// Topic is a dot-notation path naming a node in an event kind hierarchy,
// such as "event.ui.tree.collapsed".
type Topic string

// Separator is the character used to separate topic segments.
const Separator = "."

func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator. The empty topic has
// no segments.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Child appends one segment. The child of the empty topic is the segment
// itself.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return t + Separator + Topic(segment)
}

// Base returns the last segment.
func (t Topic) Base() string {
	s := string(t)
	return s[strings.LastIndex(s, Separator)+1:]
}

// Root returns the first segment.
func (t Topic) Root() string {
	root, _, _ := strings.Cut(string(t), Separator)
	return root
}

// HasPrefix reports whether prefix names t or one of its ancestors. The
// match is on whole segments, so "event.ui" is not a prefix of
// "event.uix".
func (t Topic) HasPrefix(prefix Topic) bool {
	if prefix == "" {
		return true
	}
	rest, ok := strings.CutPrefix(string(t), string(prefix))
	return ok && (rest == "" || strings.HasPrefix(rest, Separator))
}

// TrimPrefix removes prefix and the separator after it. t is returned
// unchanged when HasPrefix(prefix) is false.
func (t Topic) TrimPrefix(prefix Topic) Topic {
	if prefix == "" || !t.HasPrefix(prefix) {
		return t
	}
	return Topic(strings.TrimPrefix(string(t[len(prefix):]), Separator))
}

// IsValid reports whether every segment of t is valid. The empty topic is
// not valid.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if !ValidSegment(seg) {
			return false
		}
	}
	return true
}

// ValidSegment reports whether s can be used as a single topic segment:
// non-empty ASCII letters, digits, '_' and '-'.
func ValidSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// Join joins segments into a topic.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
