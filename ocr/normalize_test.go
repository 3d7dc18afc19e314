package ocr

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseListShape(t *testing.T) {
	// Three lines: two real, one whitespace-only.
	raw := json.RawMessage(`[[
		[[[0,0],[50,0],[50,10],[0,10]], ["hello", 0.9]],
		[[[0,12],[50,12],[50,22],[0,22]], ["   ", 0.8]],
		[[[0,24],[50,24],[50,34],[0,34]], ["world", 0.7]]
	]]`)

	out := Parse(raw)
	if out.Text != "hello\nworld" {
		t.Errorf("Expected two joined lines, got %q", out.Text)
	}
	if math.Abs(float64(out.Confidence)-0.8) > 1e-6 {
		t.Errorf("Expected mean confidence 0.8, got %v", out.Confidence)
	}
}

func TestParseListShapeBareText(t *testing.T) {
	raw := json.RawMessage(`[
		[[[0,0],[1,0],[1,1],[0,1]], "plain line"]
	]`)

	out := Parse(raw)
	if out.Text != "plain line" {
		t.Errorf("Got %q", out.Text)
	}
	if out.Confidence != 1.0 {
		t.Errorf("Bare text line should default to confidence 1.0, got %v", out.Confidence)
	}
}

func TestParseMappingShapeStringList(t *testing.T) {
	out := Parse(json.RawMessage(`{"text": ["a", "b"]}`))
	if out.Text != "a\nb" {
		t.Errorf("Expected \"a\\nb\", got %q", out.Text)
	}
	if out.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %v", out.Confidence)
	}
}

func TestParseMappingShapePairs(t *testing.T) {
	out := Parse(json.RawMessage(`{"rec_texts": [["foo", 0.5], ["bar", 0.9]]}`))
	if out.Text != "foo\nbar" {
		t.Errorf("Got %q", out.Text)
	}
	if math.Abs(float64(out.Confidence)-0.7) > 1e-6 {
		t.Errorf("Expected mean confidence 0.7, got %v", out.Confidence)
	}
}

func TestParseMappingShapeSingleString(t *testing.T) {
	out := Parse(json.RawMessage(`{"results": "one line"}`))
	if out.Text != "one line" || out.Confidence != 1.0 {
		t.Errorf("Got %+v", out)
	}
}

func TestParseMappingFirstKnownKeyWins(t *testing.T) {
	out := Parse(json.RawMessage(`{"texts": ["later"], "text": ["first"]}`))
	if out.Text != "first" {
		t.Errorf("Key probe order should prefer \"text\", got %q", out.Text)
	}
}

func TestParsePageNestedMapping(t *testing.T) {
	out := Parse(json.RawMessage(`[{"text": ["nested"]}]`))
	if out.Text != "nested" {
		t.Errorf("Page-nested mapping should unwrap, got %q", out.Text)
	}
}

func TestParseUnknownShapesDegrade(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"scalar", `42`},
		{"bool", `true`},
		{"mapping without known keys", `{"bogus": ["x"]}`},
		{"not json", `<<<garbage>>>`},
		{"empty array", `[]`},
		{"null", `null`},
	}

	for _, tc := range cases {
		out := Parse(json.RawMessage(tc.raw))
		if out.Text != "" || out.Confidence != 0 {
			t.Errorf("%s: expected empty outcome, got %+v", tc.name, out)
		}
	}
}

func TestParseEmptyTextNeverHasConfidence(t *testing.T) {
	// A mapping holding only blank strings must not report confidence.
	out := Parse(json.RawMessage(`{"text": [""]}`))
	if out.Text != "" || out.Confidence != 0 {
		t.Errorf("Blank-only payload should yield zero outcome, got %+v", out)
	}
}

func TestParseAllLinesWhitespace(t *testing.T) {
	raw := json.RawMessage(`[
		[[[0,0],[1,0],[1,1],[0,1]], ["  ", 0.9]],
		[[[0,0],[1,0],[1,1],[0,1]], ["\t", 0.9]]
	]`)
	out := Parse(raw)
	if out.Text != "" || out.Confidence != 0 {
		t.Errorf("All-whitespace lines should yield zero outcome, got %+v", out)
	}
}
