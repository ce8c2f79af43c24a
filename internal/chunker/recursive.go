package chunker

import (
	"fmt"
	"strings"

	"docchat/internal/domain"
)

// separators in coarse-to-fine priority order. A piece that still exceeds
// the size bound after splitting at one level is re-split at the next; past
// the last level the piece is hard-cut at maxSize characters.
var separators = []string{"\n\n", "\n", " "}

// RecursiveChunker splits document text into overlapping fragments, preferring
// paragraph boundaries, then line boundaries, then word boundaries, then raw
// character positions.
type RecursiveChunker struct {
	maxSize int
	overlap int
}

// New validates the size constraints and returns a chunker.
// overlap must be non-negative and strictly smaller than maxSize.
func New(maxSize, overlap int) (*RecursiveChunker, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: max_size must be positive, got %d", domain.ErrConfiguration, maxSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", domain.ErrConfiguration, overlap)
	}
	if overlap >= maxSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than max_size %d", domain.ErrConfiguration, overlap, maxSize)
	}
	return &RecursiveChunker{maxSize: maxSize, overlap: overlap}, nil
}

// Split produces the ordered fragment sequence for text. Empty input yields
// no fragments; input within the size bound yields a single fragment covering
// the whole text. The result is a pure function of (text, maxSize, overlap).
func (c *RecursiveChunker) Split(text string) []domain.Fragment {
	if text == "" {
		return nil
	}
	if len(text) <= c.maxSize {
		return []domain.Fragment{{Index: 0, Text: text, Start: 0, End: len(text)}}
	}

	// First pass: contiguous base segments, each within the size bound.
	segments := c.split(text, 0, len(text), 0)

	// Second pass: extend each segment after the first backwards by up to
	// overlap characters of the previous fragment, truncated so the fragment
	// stays within the size bound and starts after the previous fragment.
	fragments := make([]domain.Fragment, 0, len(segments))
	for i, seg := range segments {
		start := seg.start
		if i > 0 {
			prev := fragments[i-1]
			ov := c.overlap
			if room := c.maxSize - (seg.end - seg.start); ov > room {
				ov = room
			}
			if back := seg.start - prev.Start - 1; ov > back {
				ov = back
			}
			if ov > 0 {
				start -= ov
			}
		}
		fragments = append(fragments, domain.Fragment{
			Index: i,
			Text:  text[start:seg.end],
			Start: start,
			End:   seg.end,
		})
	}
	return fragments
}

type segment struct {
	start, end int
}

// split cuts text[start:end] into contiguous segments no longer than maxSize,
// trying the separator at level first and recursing into finer levels for
// pieces that remain too long.
func (c *RecursiveChunker) split(text string, start, end, level int) []segment {
	if end-start <= c.maxSize {
		return []segment{{start, end}}
	}
	if level >= len(separators) {
		return c.hardCut(start, end)
	}

	units := cutAfter(text, start, end, separators[level])
	if len(units) <= 1 {
		// Separator absent at this level; try the next finer one.
		return c.split(text, start, end, level+1)
	}

	var out []segment
	cur := units[0]
	flush := func() {
		if cur.end-cur.start <= c.maxSize {
			out = append(out, cur)
		} else {
			out = append(out, c.split(text, cur.start, cur.end, level+1)...)
		}
	}
	for _, u := range units[1:] {
		if u.end-cur.start <= c.maxSize {
			cur.end = u.end
			continue
		}
		flush()
		cur = u
	}
	flush()
	return out
}

// hardCut slices [start,end) into maxSize-character pieces.
func (c *RecursiveChunker) hardCut(start, end int) []segment {
	var out []segment
	for s := start; s < end; s += c.maxSize {
		e := s + c.maxSize
		if e > end {
			e = end
		}
		out = append(out, segment{s, e})
	}
	return out
}

// cutAfter splits text[start:end) into units, each ending just after an
// occurrence of sep, so the units stay contiguous and cover the range.
func cutAfter(text string, start, end int, sep string) []segment {
	var units []segment
	s := start
	for s < end {
		i := strings.Index(text[s:end], sep)
		if i < 0 {
			units = append(units, segment{s, end})
			break
		}
		e := s + i + len(sep)
		units = append(units, segment{s, e})
		s = e
	}
	return units
}
