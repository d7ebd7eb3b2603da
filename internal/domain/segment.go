package domain

// Metadata keys stored with every segment in the vector collection
const (
	MetadataKeySource = "source"
	MetadataKeyLang   = "lang"
)

// Segment is a bounded slice of page text tagged with its origin.
type Segment struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
	Lang   string `json:"lang"`
}

// Metadata returns the segment tags in the collection schema layout.
func (s Segment) Metadata() map[string]string {
	return map[string]string{
		MetadataKeySource: s.Source,
		MetadataKeyLang:   s.Lang,
	}
}

// ScoredSegment is a segment returned by a similarity search.
type ScoredSegment struct {
	Segment
	Score float32 `json:"score"`
}

// RetrievedContext is the per-request context assembled from scored segments.
type RetrievedContext struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Empty reports whether no segment cleared the similarity threshold.
func (c *RetrievedContext) Empty() bool {
	return c == nil || c.Text == ""
}
