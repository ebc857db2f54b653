package packets

import (
	"encoding/json"
	"io"

	"github.com/williewillus/mcrs/internal/protocol"
)

// Text is the chat component carried by disconnect reasons and the status
// description. Only the plain-text form is modeled; on the wire it travels as
// a JSON document inside a protocol string.
type Text struct {
	Text string `json:"text"`
}

func (t Text) encode(w io.Writer) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return protocol.WriteString(w, string(data))
}
