package scope

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"scopeport/internal/envelope"
)

// fakeRunner replays canned responses per verb and records invocations.
type fakeRunner struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
	lastBody  []byte
}

func (f *fakeRunner) Exec(verb string, payload interface{}) (string, error) {
	f.calls = append(f.calls, verb)

	if err, ok := f.errs[verb]; ok {
		return "", err
	}

	return f.responses[verb], nil
}

func (f *fakeRunner) ExecStdin(verb string, body []byte) (string, error) {
	f.lastBody = body
	return f.Exec(verb, nil)
}

func packedResponse(t *testing.T, payload string) string {
	t.Helper()

	packed, err := envelope.NewCodec(false).Pack(envelope.New(ProtocolVersion, json.RawMessage(payload), nil))

	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	return packed
}

func newTestSession(run CommandRunner) *Session {
	return NewSession(run, envelope.NewCodec(false), "/remote/my-scope")
}

func TestDescribeScope(t *testing.T) {
	resetVersionChecks()

	run := &fakeRunner{responses: map[string]string{
		verbDescribeScope: packedResponse(t, `{"name":"my-scope"}`),
	}}

	descriptor, err := newTestSession(run).DescribeScope()

	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}

	if descriptor.Name != "my-scope" {
		t.Errorf("expected my-scope, got %s", descriptor.Name)
	}
}

func TestDescribeScopeCollapsesFailures(t *testing.T) {
	resetVersionChecks()

	underlying := []error{
		&Error{Kind: KindPermissionDenied, Host: "h", Path: "/p"},
		&Error{Kind: KindUnexpectedNetworkError, Message: "reset", ExitCode: 1},
		fmt.Errorf("stream torn down"),
	}

	for _, cause := range underlying {
		run := &fakeRunner{errs: map[string]error{verbDescribeScope: cause}}

		_, err := newTestSession(run).DescribeScope()

		var e *Error

		if !errors.As(err, &e) || e.Kind != KindRemoteScopeNotFound {
			t.Fatalf("cause %v: expected RemoteScopeNotFound, got %v", cause, err)
		}

		if e.Name != "/remote/my-scope" {
			t.Errorf("expected scope path in error, got %s", e.Name)
		}
	}
}

func TestDescribeScopeCollapsesMalformedResponse(t *testing.T) {
	resetVersionChecks()

	run := &fakeRunner{responses: map[string]string{verbDescribeScope: "not an envelope"}}

	_, err := newTestSession(run).DescribeScope()

	var e *Error

	if !errors.As(err, &e) || e.Kind != KindRemoteScopeNotFound {
		t.Fatalf("expected RemoteScopeNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	resetVersionChecks()

	run := &fakeRunner{responses: map[string]string{
		verbList: packedResponse(t, `[{"id":"ui/button","deprecated":false,"versions":["1.0.0"]}]`),
	}}

	items, err := newTestSession(run).List("")

	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(items) != 1 || items[0].ID != "ui/button" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestFetchPlainFraming(t *testing.T) {
	resetVersionChecks()

	run := &fakeRunner{responses: map[string]string{
		verbFetch: `{"headers":{"version":"1"},"payload":[{"id":"ui/button"},{"id":"ui/card"}]}`,
	}}

	objects, err := newTestSession(run).Fetch([]string{"ui/button", "ui/card"}, false)

	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(objects) != 2 {
		t.Errorf("expected 2 objects, got %d", len(objects))
	}
}

func TestFetchInvalidResponseKeepsRawText(t *testing.T) {
	resetVersionChecks()

	run := &fakeRunner{responses: map[string]string{verbFetch: "not json"}}

	_, err := newTestSession(run).Fetch([]string{"ui/button"}, false)

	var e *Error

	if !errors.As(err, &e) || e.Kind != KindInvalidResponse {
		t.Fatalf("expected InvalidResponse, got %v", err)
	}

	if e.Raw != "not json" {
		t.Errorf("expected verbatim raw text, got %q", e.Raw)
	}
}

func TestPushMany(t *testing.T) {
	resetVersionChecks()

	run := &fakeRunner{responses: map[string]string{
		verbPut: packedResponse(t, `{"ids":["ui/button@1.0.1"]}`),
	}}

	objects := []byte(`{"objects":["..."]}`)

	ids, err := newTestSession(run).PushMany(objects)

	if err != nil {
		t.Fatalf("push failed: %v", err)
	}

	if len(ids) != 1 || ids[0] != "ui/button@1.0.1" {
		t.Errorf("unexpected ids: %v", ids)
	}

	if string(run.lastBody) != string(objects) {
		t.Errorf("expected payload to pass through stdin untouched")
	}
}

func TestOperationErrorPassesThrough(t *testing.T) {
	resetVersionChecks()

	cause := &Error{Kind: KindComponentNotFound, ID: "ui/button"}

	run := &fakeRunner{errs: map[string]error{verbShow: cause}}

	_, err := newTestSession(run).Show("ui/button")

	if !errors.Is(err, cause) {
		t.Fatalf("expected the translated error to pass through, got %v", err)
	}
}

func TestResponseVersionMismatchIsFatal(t *testing.T) {
	resetVersionChecks()

	packed, err := envelope.NewCodec(false).Pack(envelope.New("9.0.0", json.RawMessage(`[]`), nil))

	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	run := &fakeRunner{responses: map[string]string{verbList: packed}}

	_, err = newTestSession(run).List("")

	var e *Error

	if !errors.As(err, &e) || e.Kind != KindProtocolVersionMismatch {
		t.Fatalf("expected ProtocolVersionMismatch, got %v", err)
	}
}
