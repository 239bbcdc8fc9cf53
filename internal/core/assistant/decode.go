package assistant

import (
	"encoding/json"
	"regexp"
)

// Mode selects how the assistant's final message payload is interpreted.
type Mode string

const (
	// ModeText treats the payload as plain prose and strips citation markers.
	ModeText Mode = "text"
	// ModeStructured expects a JSON object with response and suggested
	// questions, falling back to plain text when the payload is not one.
	ModeStructured Mode = "structured"
)

// Decoded is the tagged result of interpreting a message payload.
type Decoded struct {
	Response           string
	SuggestedQuestions []string
	Structured         bool
}

// File-search answers embed markers like 【3:7†source】 that mean nothing
// to the end user.
var citationPattern = regexp.MustCompile(`【\d+:\d+†source】`)

// StripCitations removes inline citation markers from an answer.
func StripCitations(s string) string {
	return citationPattern.ReplaceAllString(s, "")
}

// The assistant has emitted both key spellings over time.
type structuredPayload struct {
	Response           string   `json:"response"`
	SuggestedQuestions []string `json:"suggested_questions"`
	LegacySuggested    []string `json:"Suggested question"`
}

// Decode interprets raw per mode. Structured decoding is best-effort: a
// payload that is not a JSON object with a response field degrades to the
// plain-text path instead of failing the exchange.
func Decode(raw string, mode Mode) Decoded {
	if mode == ModeStructured {
		var p structuredPayload
		if err := json.Unmarshal([]byte(raw), &p); err == nil && p.Response != "" {
			suggested := p.SuggestedQuestions
			if len(suggested) == 0 {
				suggested = p.LegacySuggested
			}
			return Decoded{Response: p.Response, SuggestedQuestions: suggested, Structured: true}
		}
	}
	return Decoded{Response: StripCitations(raw)}
}
