package simplify

import (
	"encoding/json"
	"strings"
)

// Request is a parsed simplification request. Domain and Level are optional;
// unknown values fall back to general/intermediate at prompt-build time.
type Request struct {
	Text   string
	Domain string
	Level  string
}

// jsonRequest accepts the documented "text" field plus the "content" and
// "input" aliases some clients send.
type jsonRequest struct {
	Text    string `json:"text"`
	Content string `json:"content"`
	Input   string `json:"input"`
	Domain  string `json:"domain"`
	Level   string `json:"level"`
}

func (r jsonRequest) toRequest() Request {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		text = strings.TrimSpace(r.Content)
	}
	if text == "" {
		text = strings.TrimSpace(r.Input)
	}
	return Request{Text: text, Domain: r.Domain, Level: r.Level}
}

// ParseRequest extracts a Request from a raw body. A JSON content type with a
// parseable body is authoritative: an empty text field is then a client
// error, never a cue to reinterpret the body. Other bodies are taken as the
// text verbatim, except that a body that itself looks like JSON gets one
// parse attempt first so clients that forget the content type still work.
func ParseRequest(contentType string, body []byte) (Request, bool) {
	isJSON := strings.Contains(strings.ToLower(contentType), "application/json")
	if isJSON {
		var jr jsonRequest
		if err := json.Unmarshal(body, &jr); err == nil {
			req := jr.toRequest()
			return req, req.Text != ""
		}
	}

	raw := strings.TrimSpace(string(body))
	if strings.HasPrefix(raw, "{") {
		var jr jsonRequest
		if err := json.Unmarshal([]byte(raw), &jr); err == nil {
			if req := jr.toRequest(); req.Text != "" {
				return req, true
			}
		}
	}

	if raw == "" {
		return Request{}, false
	}
	return Request{Text: raw}, true
}
