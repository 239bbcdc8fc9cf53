package assistant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripCitations(t *testing.T) {
	require.Equal(t, "", StripCitations("【3:7†source】"))
	require.Equal(t, "hello world", StripCitations("hello【12:0†source】 world"))
	require.Equal(t, "no markers here", StripCitations("no markers here"))
	// malformed markers stay untouched
	require.Equal(t, "【a:b†source】", StripCitations("【a:b†source】"))
}

func TestDecodeTextMode(t *testing.T) {
	d := Decode("answer【1:2†source】", ModeText)
	require.Equal(t, "answer", d.Response)
	require.False(t, d.Structured)
	require.Empty(t, d.SuggestedQuestions)
}

func TestDecodeStructured(t *testing.T) {
	d := Decode(`{"response":"hi","suggested_questions":["a","b"]}`, ModeStructured)
	require.True(t, d.Structured)
	require.Equal(t, "hi", d.Response)
	require.Equal(t, []string{"a", "b"}, d.SuggestedQuestions)
}

func TestDecodeStructuredLegacyKey(t *testing.T) {
	d := Decode(`{"response":"hi","Suggested question":["a","b"]}`, ModeStructured)
	require.True(t, d.Structured)
	require.Equal(t, "hi", d.Response)
	require.Equal(t, []string{"a", "b"}, d.SuggestedQuestions)
}

func TestDecodeStructuredFallsBackToText(t *testing.T) {
	d := Decode("plain prose【3:7†source】", ModeStructured)
	require.False(t, d.Structured)
	require.Equal(t, "plain prose", d.Response)

	// valid JSON but no response field still falls back
	d = Decode(`{"answer":"hi"}`, ModeStructured)
	require.False(t, d.Structured)
	require.Equal(t, `{"answer":"hi"}`, d.Response)
}
