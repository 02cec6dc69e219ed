package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Codec packs and unpacks envelopes for transmission on a remote command
// line: JSON, optionally zlib-compressed, wrapped in base64 so the result
// survives shell quoting.
type Codec struct {
	// Compress controls whether packed envelopes are zlib-compressed.
	// Unpacking always sniffs the compression from the data itself.
	Compress bool
}

func NewCodec(compress bool) *Codec {
	return &Codec{Compress: compress}
}

func (c *Codec) Pack(env *Envelope) (string, error) {
	env.Headers.Compressed = c.Compress

	raw, err := json.Marshal(env)

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToEncodeEnvelope, err)
	}

	if c.Compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)

		if _, err = zw.Write(raw); err != nil {
			return "", fmt.Errorf("%w: %v", ErrFailedToEncodeEnvelope, err)
		}

		if err = zw.Close(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrFailedToEncodeEnvelope, err)
		}

		raw = buf.Bytes()
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

// Unpack reverses Pack. It also accepts bare JSON without the base64 wrap,
// which remote scopes produce on some error paths.
func (c *Codec) Unpack(data string) (*Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(data)

	if err != nil {
		raw = []byte(data)
	}

	if isZlib(raw) {
		zr, err := zlib.NewReader(bytes.NewReader(raw))

		if err != nil {
			return nil, fmt.Errorf("%w: %v: %s", ErrInvalidEnvelope, err, data)
		}

		raw, err = io.ReadAll(zr)

		if err != nil {
			return nil, fmt.Errorf("%w: %v: %s", ErrInvalidEnvelope, err, data)
		}

		_ = zr.Close()
	}

	env := &Envelope{}

	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrInvalidEnvelope, err, data)
	}

	if env.Headers.Version == "" {
		return nil, fmt.Errorf("%w: missing version header: %s", ErrInvalidEnvelope, data)
	}

	return env, nil
}

// isZlib checks the two-byte zlib stream header (0x78 followed by a
// compression-level byte whose checksum makes the pair divisible by 31).
func isZlib(raw []byte) bool {
	if len(raw) < 2 || raw[0] != 0x78 {
		return false
	}
	return (uint16(raw[0])<<8|uint16(raw[1]))%31 == 0
}
