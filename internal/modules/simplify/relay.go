package simplify

import (
	"encoding/json"
	"io"
	"strings"
)

const (
	dataPrefix    = "data:"
	doneSentinel  = "[DONE]"
	relayReadSize = 4096
)

// RelayStream copies text deltas from an upstream event stream to dst.
//
// It keeps a single buffer across reads: each chunk is appended, the buffer
// is split on newlines, and the last (possibly incomplete) fragment is
// retained for the next read so a frame split across chunk boundaries is
// never processed early. Complete lines without the data prefix and
// unparsable payloads are dropped as keep-alives. The first [DONE] payload
// stops processing immediately; lines still buffered behind it are discarded.
//
// flush, when non-nil, is called after every written delta so partial output
// reaches the client without response buffering.
func RelayStream(src io.Reader, dst io.Writer, flush func()) error {
	buf := make([]byte, relayReadSize)
	remainder := ""

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			chunk := remainder + string(buf[:n])
			lines := strings.Split(chunk, "\n")
			remainder = lines[len(lines)-1]

			for _, line := range lines[:len(lines)-1] {
				line = strings.TrimSpace(line)
				if !strings.HasPrefix(line, dataPrefix) {
					continue
				}
				data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
				if data == "" {
					continue
				}
				if data == doneSentinel {
					return nil
				}

				var event struct {
					Choices []struct {
						Delta struct {
							Content string `json:"content"`
						} `json:"delta"`
					} `json:"choices"`
				}
				if err := json.Unmarshal([]byte(data), &event); err != nil {
					continue
				}
				if len(event.Choices) == 0 || event.Choices[0].Delta.Content == "" {
					continue
				}

				if _, err := io.WriteString(dst, event.Choices[0].Delta.Content); err != nil {
					return err
				}
				if flush != nil {
					flush()
				}
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
