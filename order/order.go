package order

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Label is the content of an order.
type Label string

const (
	Attack  Label = "attack"
	Retreat Label = "retreat"
)

// DefaultSenderID identifies the General on the wire.
const DefaultSenderID = "general"

// ParseLabel returns the Label named by s.
func ParseLabel(s string) (Label, error) {
	switch l := Label(strings.ToLower(strings.TrimSpace(s))); l {
	case Attack, Retreat:
		return l, nil
	default:
		return "", fmt.Errorf("unknown order %q", s)
	}
}

// SignedOrder is an order together with the signature of its label.
type SignedOrder struct {
	Label     Label
	SenderID  string
	Signature []byte
}

// signedBytes returns the bytes covered by the signature.
func (o SignedOrder) signedBytes() []byte {
	return []byte(o.Label)
}

// Encode renders o in wire format, without the trailing newline.
// Neither the label nor the sender id are escaped: a ':' inside them makes
// the line ambiguous for the receiver.
func Encode(o SignedOrder) string {
	return fmt.Sprintf("%s:%s:%s", o.Label, o.SenderID, base64.StdEncoding.EncodeToString(o.Signature))
}

// Decode parses a line produced by Encode. The label ends at the first ':'
// and the signature starts after the last one.
func Decode(line string) (SignedOrder, error) {
	line = strings.TrimRight(line, "\r\n")
	first := strings.Index(line, ":")
	last := strings.LastIndex(line, ":")
	if first < 0 || first == last {
		return SignedOrder{}, fmt.Errorf("malformed order %q", line)
	}
	label := Label(line[:first])
	if label != Attack && label != Retreat {
		return SignedOrder{}, fmt.Errorf("unknown order %q", line[:first])
	}
	sig, err := base64.StdEncoding.DecodeString(line[last+1:])
	if err != nil {
		return SignedOrder{}, fmt.Errorf("malformed signature: %w", err)
	}
	return SignedOrder{
		Label:     label,
		SenderID:  line[first+1 : last],
		Signature: sig,
	}, nil
}
