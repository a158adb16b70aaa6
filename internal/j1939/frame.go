package j1939

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// FrameSeparator splits identifier and payload in candump frame text.
const FrameSeparator = "#"

// Frame is one parsed "<hex-id>#<hex-payload>" token. The identifier is
// decoded eagerly; the payload is only validated when Payload is called, so a
// frame with a broken payload still yields its header.
type Frame struct {
	Token       string            `json:"token"`
	ID          uint32            `json:"id"`
	Header      DecodedIdentifier `json:"header"`
	PayloadText string            `json:"payload"`
}

// ParseFrame splits token on its "#" separator and decodes the identifier.
func ParseFrame(token string) (Frame, error) {
	token = strings.TrimSpace(token)
	idText, payloadText, found := strings.Cut(token, FrameSeparator)
	if !found {
		return Frame{}, frameErrorf(ErrInvalidFrameFormat, token, "missing %q separator", FrameSeparator)
	}
	if strings.Contains(payloadText, FrameSeparator) {
		return Frame{}, frameErrorf(ErrInvalidFrameFormat, token, "more than one %q separator", FrameSeparator)
	}
	if idText == "" {
		return Frame{}, frameErrorf(ErrInvalidFrameFormat, token, "empty identifier")
	}

	id, err := parseIdentifier(idText)
	if err != nil {
		return Frame{}, &FrameError{Kind: ErrInvalidIdentifier, Token: token, Detail: err.Error()}
	}

	return Frame{
		Token:       token,
		ID:          id,
		Header:      DecodeIdentifier(id),
		PayloadText: payloadText,
	}, nil
}

func parseIdentifier(text string) (uint32, error) {
	digits := text
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, errors.Newf("%s exceeds %d bits", text, IdentifierBits)
		}
		return 0, errors.Newf("%s is not a hexadecimal number", text)
	}
	if v > MaxIdentifier {
		return 0, errors.Newf("%s exceeds %d bits", text, IdentifierBits)
	}
	return uint32(v), nil
}

// Payload decodes the payload text into bytes. An empty payload is valid.
func (f Frame) Payload() ([]byte, error) {
	if len(f.PayloadText)%2 != 0 {
		return nil, frameErrorf(ErrInvalidPayload, f.Token, "odd number of hex digits (%d)", len(f.PayloadText))
	}
	data, err := hex.DecodeString(f.PayloadText)
	if err != nil {
		return nil, &FrameError{Kind: ErrInvalidPayload, Token: f.Token, Detail: err.Error()}
	}
	return data, nil
}
