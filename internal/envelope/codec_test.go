package envelope

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	codec := NewCodec(false)

	env := New("1.4.0", json.RawMessage(`{"ids":["a/b@1.0.0"]}`), map[string]string{
		"requestId": "r-1",
	})

	packed, err := codec.Pack(env)

	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	got, err := codec.Unpack(packed)

	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}

	if got.Headers.Version != "1.4.0" {
		t.Errorf("expected version 1.4.0, got %s", got.Headers.Version)
	}

	if string(got.Payload) != `{"ids":["a/b@1.0.0"]}` {
		t.Errorf("unexpected payload: %s", got.Payload)
	}

	if got.Context["requestId"] != "r-1" {
		t.Errorf("unexpected context: %v", got.Context)
	}
}

func TestPackUnpackCompressed(t *testing.T) {
	codec := NewCodec(true)

	env := New("1.4.0", json.RawMessage(`{"name":"my-scope"}`), nil)

	packed, err := codec.Pack(env)

	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	// Unpacking must not depend on the codec's own compression flag.
	got, err := NewCodec(false).Unpack(packed)

	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}

	if !got.Headers.Compressed {
		t.Errorf("expected compressed header to be set")
	}

	if string(got.Payload) != `{"name":"my-scope"}` {
		t.Errorf("unexpected payload: %s", got.Payload)
	}
}

func TestUnpackBareJSON(t *testing.T) {
	got, err := NewCodec(false).Unpack(`{"headers":{"version":"1"},"payload":{"id":"my/comp"}}`)

	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}

	if got.Headers.Version != "1" {
		t.Errorf("expected version 1, got %s", got.Headers.Version)
	}
}

func TestUnpackInvalidText(t *testing.T) {
	_, err := NewCodec(false).Unpack("boom")

	if !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
	}
}

func TestUnpackMissingVersion(t *testing.T) {
	_, err := NewCodec(false).Unpack(`{"headers":{},"payload":{}}`)

	if !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
	}
}
