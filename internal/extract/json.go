package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

// Text decodes a JSON string or number into its textual form, so prices can be
// normalized regardless of how a company encodes them.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("decoding %s as text: %w", b, err)
		}
		*t = Text(n.String())
		return nil
	}
}

// String returns the text.
func (t Text) String() string {
	return string(t)
}

var recordPattern = regexp.MustCompile(`\{[^{}]*\}`)

// Records returns every brace delimited object without nested objects found in
// text. It is used for payloads that embed JSON records in a document that is not
// JSON as a whole.
func Records(text []byte) [][]byte {
	return recordPattern.FindAll(text, -1)
}
