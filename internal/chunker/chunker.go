// Package chunker splits cleaned page text into overlapping, tagged segments.
//
// Splitting is recursive: the text is cut on the coarsest separator present
// (paragraph, line, sentence, word) and pieces that are still too long are cut
// again on the next one, down to single characters. Neighbouring pieces are
// then merged back into segments of at most Size characters, carrying up to
// Overlap characters from the end of one segment into the next. Lengths are
// counted in runes.
package chunker

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/liliang-cn/askclinic/internal/domain"
)

// DefaultSeparators are tried in order, coarsest first. The empty separator
// splits into single characters and must stay last.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "? ", "! ", " ", ""}

// Splitter is a recursive character splitter.
type Splitter struct {
	Size       int
	Overlap    int
	Separators []string
}

// New creates a splitter with the default separators.
func New(size, overlap int) *Splitter {
	if size <= 0 {
		size = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Splitter{Size: size, Overlap: overlap, Separators: DefaultSeparators}
}

// Chunk splits text into segments tagged with source and lang. Empty input
// yields no segments.
func (s *Splitter) Chunk(text, source, lang string) []domain.Segment {
	texts := s.Split(text)
	if len(texts) == 0 {
		return nil
	}
	segments := make([]domain.Segment, len(texts))
	for i, t := range texts {
		segments[i] = domain.Segment{
			ID:     SegmentID(source, lang, i),
			Text:   t,
			Source: source,
			Lang:   lang,
		}
	}
	return segments
}

// Split splits text into strings of at most Size runes.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.Separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := ""
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var out, good []string
	for _, piece := range splitKeepEnd(text, separator) {
		if separator == "" || runeLen(piece) < s.Size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			out = append(out, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			out = append(out, s.split(piece, []string{""})...)
			continue
		}
		out = append(out, s.split(piece, rest)...)
	}
	if len(good) > 0 {
		out = append(out, s.merge(good)...)
	}
	return out
}

// merge joins pieces into segments, keeping a tail of at most Overlap runes
// from each emitted segment as the head of the next.
func (s *Splitter) merge(pieces []string) []string {
	var (
		docs    []string
		current []string
		total   int
	)
	for _, p := range pieces {
		n := runeLen(p)
		if total+n > s.Size && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.Overlap || (total+n > s.Size && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
	}
	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepEnd splits text after every occurrence of sep, leaving the
// separator at the end of the preceding piece. An empty sep splits runes.
func splitKeepEnd(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// SegmentID is stable for a given source, language and position, so
// re-ingesting a page overwrites its previous segments.
func SegmentID(source, lang string, index int) string {
	sum := md5.Sum([]byte(source + "|" + lang + "|" + strconv.Itoa(index)))
	return hex.EncodeToString(sum[:])
}
