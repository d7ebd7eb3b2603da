package domain

import "time"

// Source represents a citation source
type Source struct {
	URL string `json:"url"`
}

// ChatRequest is the request body of POST /chat
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the response body of POST /chat
type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}

// LogQueryRequest is the request body of POST /log_query
type LogQueryRequest struct {
	Query  string `json:"query"`
	Status string `json:"status"`
}

// Outcome classifies how a chat request ended
type Outcome string

const (
	OutcomeAnswered  Outcome = "answered"
	OutcomeNoContext Outcome = "no_context"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// ChatResult is the result of one pass through the chat pipeline.
// Infrastructure faults are never represented here; they come back as errors.
type ChatResult struct {
	Outcome Outcome  `json:"outcome"`
	Lang    string   `json:"lang"`
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// QueryRecord is an audited chat request
type QueryRecord struct {
	ID        string        `json:"id"`
	Query     string        `json:"query"`
	Lang      string        `json:"lang,omitempty"`
	Outcome   Outcome       `json:"outcome"`
	Response  string        `json:"response,omitempty"`
	Sources   []Source      `json:"sources,omitempty"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency"`
	CreatedAt time.Time     `json:"created_at"`
}

// ClientLog is a log line reported by the chat front-end
type ClientLog struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats represents system statistics
type Stats struct {
	TotalQueries int             `json:"total_queries"`
	ByOutcome    map[Outcome]int `json:"by_outcome"`
	ByLanguage   map[string]int  `json:"by_language"`
	ClientLogs   int             `json:"client_logs"`
	Segments     int64           `json:"segments"`
}
