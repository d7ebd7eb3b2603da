package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageText = "A gastric balloon is a soft silicone balloon placed in the stomach through an endoscope. " +
	"It takes up space and helps patients feel full sooner. The procedure usually lasts about twenty minutes. " +
	"Patients go home the same day and return to light activity quickly. " +
	"The balloon stays in place for six to twelve months depending on the type. " +
	"During that time patients follow a nutrition plan prepared by the clinic dietitian. " +
	"Most patients lose between ten and fifteen percent of their body weight. " +
	"Common side effects in the first days are nausea and cramping, which are managed with medication. " +
	"The balloon is removed endoscopically at the end of the treatment period. " +
	"Our team follows up with every patient for a full year after removal. " +
	"Gastric balloon treatment is suitable for patients with a body mass index between twenty seven and forty. " +
	"It is not suitable for patients who have had previous stomach surgery. " +
	"Contact the clinic to book a free online consultation with our surgeons."

func TestSplitEmpty(t *testing.T) {
	s := New(512, 100)
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   "))
	assert.Nil(t, s.Chunk("", "https://example.com", "en"))
}

func TestSplitShortTextIsOneSegment(t *testing.T) {
	s := New(512, 100)
	assert.Equal(t, []string{"Short page."}, s.Split("Short page."))
}

func TestSplitRespectsSizeAndOverlap(t *testing.T) {
	s := New(200, 60)
	parts := s.Split(pageText)
	require.Greater(t, len(parts), 3)

	for i, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 200, "segment %d too long", i)
		assert.NotEmpty(t, p)
	}

	for i := 1; i < len(parts); i++ {
		prev, cur := parts[i-1], parts[i]
		overlap := commonAffix(prev, cur)
		assert.LessOrEqual(t, utf8.RuneCountInString(overlap), 60, "segments %d/%d overlap too much", i-1, i)
	}
}

func TestSplitPrefersSentenceBoundaries(t *testing.T) {
	s := New(200, 0)
	for _, p := range s.Split(pageText) {
		assert.True(t, strings.HasSuffix(p, "."), "segment should end on a sentence: %q", p)
	}
}

func TestSplitFallsBackToCharacters(t *testing.T) {
	word := strings.Repeat("x", 1200)
	s := New(512, 100)
	parts := s.Split(word)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 512)
	}
	assert.Equal(t, 512, len(parts[0]))
}

func TestSplitCountsRunes(t *testing.T) {
	text := strings.Repeat("ğüşöç ", 200)
	s := New(100, 20)
	for _, p := range s.Split(text) {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 100)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	s := New(150, 40)
	first := s.Split(pageText)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, New(150, 40).Split(pageText))
	}
}

func TestChunkTagsSegments(t *testing.T) {
	s := New(200, 50)
	segs := s.Chunk(pageText, "https://savaclinic.com/bariatric-surgery/gastric-balloon/", "en")
	require.NotEmpty(t, segs)

	seen := map[string]bool{}
	for i, seg := range segs {
		assert.Equal(t, "https://savaclinic.com/bariatric-surgery/gastric-balloon/", seg.Source)
		assert.Equal(t, "en", seg.Lang)
		assert.Equal(t, SegmentID(seg.Source, "en", i), seg.ID)
		assert.False(t, seen[seg.ID], "duplicate id")
		seen[seg.ID] = true
		assert.Equal(t, map[string]string{"source": seg.Source, "lang": "en"}, seg.Metadata())
	}
}

func TestSegmentIDStable(t *testing.T) {
	assert.Equal(t, SegmentID("u", "es", 2), SegmentID("u", "es", 2))
	assert.NotEqual(t, SegmentID("u", "es", 2), SegmentID("u", "fr", 2))
	assert.NotEqual(t, SegmentID("u", "es", 2), SegmentID("u", "es", 3))
}

// commonAffix returns the longest suffix of a that is a prefix of b.
func commonAffix(a, b string) string {
	for i := 0; i < len(a); i++ {
		if strings.HasPrefix(b, a[i:]) {
			return a[i:]
		}
	}
	return ""
}
