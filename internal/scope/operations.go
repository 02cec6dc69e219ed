package scope

import (
	"encoding/json"

	"scopeport/internal/envelope"
)

// Remote verb names understood by the scope-side program.
const (
	verbDescribeScope = "_scope"
	verbList          = "_list"
	verbLatest        = "_latest"
	verbSearch        = "_search"
	verbShow          = "_show"
	verbLog           = "_log"
	verbGraph         = "_graph"
	verbFetch         = "_fetch"
	verbPut           = "_put"
	verbDelete        = "_delete"
	verbDeprecate     = "_deprecate"
	verbUndeprecate   = "_undeprecate"
)

// CommandRunner executes one remote verb and returns its stdout text.
// Implemented by the SSH command channel; faked in tests.
type CommandRunner interface {
	Exec(verb string, payload interface{}) (string, error)

	// ExecStdin runs a verb whose body is written to the remote process's
	// stdin instead of being packed into the command line.
	ExecStdin(verb string, body []byte) (string, error)
}

// Session exposes the registry operations of one remote scope over an
// established connection.
//
// A Session is not safe for concurrent use: the underlying connection and
// negotiated identity are shared mutable state. Callers must serialize
// operations on one Session or use one Session per goroutine.
type Session struct {
	run   CommandRunner
	codec *envelope.Codec
	path  string
}

func NewSession(run CommandRunner, codec *envelope.Codec, path string) *Session {
	return &Session{run: run, codec: codec, path: path}
}

// DescribeScope resolves the remote scope's descriptor. Any failure past
// authentication collapses into RemoteScopeNotFound for the scope path;
// the underlying cause is intentionally discarded.
func (s *Session) DescribeScope() (*ScopeDescriptor, error) {
	notFound := &Error{Kind: KindRemoteScopeNotFound, Name: s.path}

	res, err := s.run.Exec(verbDescribeScope, nil)

	if err != nil {
		return nil, notFound
	}

	descriptor := &ScopeDescriptor{}

	if err := s.decode(res, descriptor); err != nil {
		return nil, notFound
	}

	return descriptor, nil
}

func (s *Session) List(namespaces string) ([]ListItem, error) {
	res, err := s.run.Exec(verbList, struct {
		Namespaces string `json:"namespaces,omitempty"`
	}{Namespaces: namespaces})

	if err != nil {
		return nil, err
	}

	var items []ListItem

	if err := s.decode(res, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Session) LatestVersions(ids []string) ([]string, error) {
	res, err := s.run.Exec(verbLatest, struct {
		IDs []string `json:"ids"`
	}{IDs: ids})

	if err != nil {
		return nil, err
	}

	var latest []string

	if err := s.decode(res, &latest); err != nil {
		return nil, err
	}

	return latest, nil
}

func (s *Session) Search(query string, reindex bool) (json.RawMessage, error) {
	res, err := s.run.Exec(verbSearch, struct {
		Query   string `json:"query"`
		Reindex bool   `json:"reindex"`
	}{Query: query, Reindex: reindex})

	if err != nil {
		return nil, err
	}

	var hits json.RawMessage

	if err := s.decode(res, &hits); err != nil {
		return nil, err
	}

	return hits, nil
}

func (s *Session) Show(id string) (json.RawMessage, error) {
	res, err := s.run.Exec(verbShow, struct {
		ID string `json:"id"`
	}{ID: id})

	if err != nil {
		return nil, err
	}

	var component json.RawMessage

	if err := s.decode(res, &component); err != nil {
		return nil, err
	}

	return component, nil
}

func (s *Session) Log(id string) ([]LogEntry, error) {
	res, err := s.run.Exec(verbLog, struct {
		ID string `json:"id"`
	}{ID: id})

	if err != nil {
		return nil, err
	}

	var entries []LogEntry

	if err := s.decode(res, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Session) Graph(id string) (json.RawMessage, error) {
	res, err := s.run.Exec(verbGraph, struct {
		ID string `json:"id,omitempty"`
	}{ID: id})

	if err != nil {
		return nil, err
	}

	var graph json.RawMessage

	if err := s.decode(res, &graph); err != nil {
		return nil, err
	}

	return graph, nil
}

// fetchResponse is the plain-text framing used by the fetch verb only:
// bare JSON, never packed through the envelope codec.
type fetchResponse struct {
	Headers envelope.Headers  `json:"headers"`
	Payload []json.RawMessage `json:"payload"`
}

// Fetch retrieves raw component objects. Its response framing differs from
// every other verb; see fetchResponse.
func (s *Session) Fetch(ids []string, noDependencies bool) ([]json.RawMessage, error) {
	res, err := s.run.Exec(verbFetch, struct {
		IDs            []string `json:"ids"`
		NoDependencies bool     `json:"noDependencies"`
	}{IDs: ids, NoDependencies: noDependencies})

	if err != nil {
		return nil, err
	}

	response := &fetchResponse{}

	if err := json.Unmarshal([]byte(res), response); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Raw: res}
	}

	if err := CheckVersionCompatibility(response.Headers.Version); err != nil {
		return nil, err
	}

	return response.Payload, nil
}

// PushMany uploads pre-serialized component objects. The body goes to the
// remote process's stdin, not the command line. Returns the accepted ids.
func (s *Session) PushMany(objects []byte) ([]string, error) {
	res, err := s.run.ExecStdin(verbPut, objects)

	if err != nil {
		return nil, err
	}

	var accepted struct {
		IDs []string `json:"ids"`
	}

	if err := s.decode(res, &accepted); err != nil {
		return nil, err
	}

	return accepted.IDs, nil
}

func (s *Session) DeleteMany(ids []string, force bool) (*RemovedResult, error) {
	res, err := s.run.Exec(verbDelete, struct {
		IDs   []string `json:"ids"`
		Force bool     `json:"force"`
	}{IDs: ids, Force: force})

	if err != nil {
		return nil, err
	}

	removed := &RemovedResult{}

	if err := s.decode(res, removed); err != nil {
		return nil, err
	}

	return removed, nil
}

func (s *Session) DeprecateMany(ids []string) ([]string, error) {
	return s.deprecation(verbDeprecate, ids)
}

func (s *Session) UndeprecateMany(ids []string) ([]string, error) {
	return s.deprecation(verbUndeprecate, ids)
}

func (s *Session) deprecation(verb string, ids []string) ([]string, error) {
	res, err := s.run.Exec(verb, struct {
		IDs []string `json:"ids"`
	}{IDs: ids})

	if err != nil {
		return nil, err
	}

	var changed struct {
		IDs []string `json:"ids"`
	}

	if err := s.decode(res, &changed); err != nil {
		return nil, err
	}

	return changed.IDs, nil
}

// decode unpacks a response envelope, runs the version check, and
// unmarshals the payload into out.
func (s *Session) decode(res string, out interface{}) error {
	env, err := s.codec.Unpack(res)

	if err != nil {
		return &Error{Kind: KindInvalidResponse, Raw: res}
	}

	if err := CheckVersionCompatibility(env.Headers.Version); err != nil {
		return err
	}

	if out == nil || len(env.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Payload, out); err != nil {
		return &Error{Kind: KindInvalidResponse, Raw: res}
	}

	return nil
}
