package ocr

import (
	"encoding/json"
	"log"
	"strings"
)

// RawResult is the recognizer's payload. Its shape is not contractually
// fixed across engine versions; Parse is the only code allowed to inspect
// it.
type RawResult = json.RawMessage

// Outcome is the normalized recognition result. Empty text never carries a
// confidence above zero.
type Outcome struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
}

// knownTextKeys are the mapping-shape keys engine versions have been seen
// to use, probed in order; the first present key wins.
var knownTextKeys = []string{"text", "texts", "rec_text", "rec_texts", "results"}

// Parse normalizes a raw engine payload into an Outcome. Two shapes are
// supported: a keyed mapping of text entries, and an ordered list of
// per-line (bbox, text) records. Anything else degrades to an empty
// Outcome with a diagnostic log, never an error.
func Parse(raw RawResult) Outcome {
	if len(raw) == 0 {
		return Outcome{}
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("Normalize: payload is not valid JSON: %v", err)
		return Outcome{}
	}

	switch shaped := v.(type) {
	case map[string]interface{}:
		return parseMapping(shaped)
	case []interface{}:
		if out := parseLines(shaped); out.Text != "" {
			return out
		}
		// Engines often nest the page as the sole element of a top-level
		// array; unwrap one level and retry.
		if len(shaped) == 1 {
			switch inner := shaped[0].(type) {
			case map[string]interface{}:
				return parseMapping(inner)
			case []interface{}:
				return parseLines(inner)
			}
		}
		return Outcome{}
	default:
		log.Printf("Normalize: unknown result shape %T, returning empty outcome", v)
		return Outcome{}
	}
}

// parseMapping handles {"text": [...]} style payloads: the value under the
// first known key may be a single string, a list of strings, or a list of
// (text, score) pairs. Bare strings default to confidence 1.0.
func parseMapping(m map[string]interface{}) Outcome {
	for _, key := range knownTextKeys {
		data, ok := m[key]
		if !ok {
			continue
		}

		var lines []string
		var confs []float64

		switch d := data.(type) {
		case string:
			lines = append(lines, d)
			confs = append(confs, 1.0)
		case []interface{}:
			for _, item := range d {
				switch entry := item.(type) {
				case string:
					lines = append(lines, entry)
					confs = append(confs, 1.0)
				case []interface{}:
					if text, conf, ok := textScorePair(entry); ok {
						lines = append(lines, text)
						confs = append(confs, conf)
					}
				}
			}
		default:
			log.Printf("Normalize: key %q holds unsupported type %T", key, data)
		}
		return outcomeFrom(lines, confs)
	}

	log.Printf("Normalize: mapping shape without any known text key, returning empty outcome")
	return Outcome{}
}

// parseLines handles the classic list shape: each entry is (bbox, (text,
// score)) or (bbox, text). Blank lines are skipped; order is the engine's
// reading order and is trusted as-is.
func parseLines(entries []interface{}) Outcome {
	var lines []string
	var confs []float64

	for _, e := range entries {
		entry, ok := e.([]interface{})
		if !ok || len(entry) < 2 {
			continue
		}

		var text string
		var conf float64
		switch td := entry[1].(type) {
		case string:
			text, conf = td, 1.0
		case []interface{}:
			var ok bool
			if text, conf, ok = textScorePair(td); !ok {
				continue
			}
		default:
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, text)
		confs = append(confs, conf)
	}

	return outcomeFrom(lines, confs)
}

func textScorePair(pair []interface{}) (string, float64, bool) {
	if len(pair) < 2 {
		return "", 0, false
	}
	text, ok := pair[0].(string)
	if !ok {
		return "", 0, false
	}
	score, ok := pair[1].(float64)
	if !ok {
		return "", 0, false
	}
	return text, score, true
}

func outcomeFrom(lines []string, confs []float64) Outcome {
	if len(lines) == 0 {
		return Outcome{}
	}
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		// Empty text must never carry a positive confidence.
		return Outcome{}
	}
	var sum float64
	for _, c := range confs {
		sum += c
	}
	return Outcome{
		Text:       text,
		Confidence: float32(sum / float64(len(confs))),
	}
}
