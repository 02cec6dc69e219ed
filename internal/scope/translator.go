package scope

import (
	"encoding/json"

	"scopeport/internal/envelope"
	"scopeport/internal/logger"
)

// Exit codes reserved by the remote scope program for typed failures.
// The mapping below is wire contract; do not renumber.
const (
	exitComponentNotFound   = 127
	exitPermissionDenied    = 128
	exitRemoteScopeNotFound = 129
	exitPermissionDeniedAlt = 130
	exitMergeConflict       = 131
	exitGenericError        = 132
	exitOldClientVersion    = 133
	exitExportOwnerPrivate  = 134
)

// errorPayload is the structured error body a remote scope packs into
// stderr. Fields are populated per error kind; absent fields stay zero.
type errorPayload struct {
	Message          string   `json:"message"`
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	IDsAndVersions   []string `json:"idsAndVersions"`
	SourceScope      string   `json:"sourceScope"`
	DestinationScope string   `json:"destinationScope"`
}

// Translator maps a remote exit code plus raw stderr text to a domain error.
type Translator struct {
	codec *envelope.Codec
	host  string
	path  string
}

func NewTranslator(codec *envelope.Codec, host, path string) *Translator {
	return &Translator{codec: codec, host: host, path: path}
}

// Translate never returns nil: every non-zero exit resolves to some kind,
// falling back to UnexpectedNetworkError with the raw text as message.
func (t *Translator) Translate(exitCode int, stderr string) error {
	payload, err := t.decodeErrorPayload(stderr)

	if err != nil {
		// Version incompatibility discovered while decoding the error
		// envelope outranks the error the remote was trying to report.
		return err
	}

	e := &Error{ExitCode: exitCode}

	switch exitCode {
	case exitComponentNotFound:
		e.Kind = KindComponentNotFound
		e.ID = fallback(payload.ID, stderr)
	case exitPermissionDenied, exitPermissionDeniedAlt:
		e.Kind = KindPermissionDenied
		e.Host = t.host
		e.Path = t.path
	case exitRemoteScopeNotFound:
		e.Kind = KindRemoteScopeNotFound
		e.Name = fallback(payload.Name, stderr)
	case exitMergeConflict:
		e.Kind = KindMergeConflictOnRemote
		e.IDsAndVersions = payload.IDsAndVersions
		if e.IDsAndVersions == nil {
			e.IDsAndVersions = []string{}
		}
	case exitGenericError:
		e.Kind = KindGenericRemoteError
		e.Message = fallback(payload.Message, stderr)
	case exitOldClientVersion:
		e.Kind = KindOldClientVersion
		e.Message = fallback(payload.Message, stderr)
	case exitExportOwnerPrivate:
		e.Kind = KindExportAnotherOwnerPrivate
		e.Message = payload.Message
		e.SourceScope = fallback(payload.SourceScope, "unknown")
		e.DestinationScope = fallback(payload.DestinationScope, "unknown")
	default:
		e.Kind = KindUnexpectedNetworkError
		e.Message = fallback(payload.Message, stderr)
	}

	return e
}

// decodeErrorPayload attempts a structured decode of stderr. Undecodable
// text is not an error on this path: the caller falls back to the raw text.
func (t *Translator) decodeErrorPayload(stderr string) (*errorPayload, error) {
	payload := &errorPayload{}

	env, err := t.codec.Unpack(stderr)

	if err != nil {
		logger.Debug("remote error text is not a structured envelope, using raw text: %v", err)
		return payload, nil
	}

	if err := CheckVersionCompatibility(env.Headers.Version); err != nil {
		return nil, err
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			logger.Debug("failed to decode remote error payload, using raw text: %v", err)
			return &errorPayload{}, nil
		}
	}

	return payload, nil
}

func fallback(value, alt string) string {
	if value != "" {
		return value
	}
	return alt
}
