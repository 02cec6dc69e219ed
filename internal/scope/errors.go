package scope

import (
	"fmt"
	"strings"
)

// ErrorKind tags the domain errors produced at the transport boundary.
type ErrorKind int

const (
	KindUnexpectedNetworkError ErrorKind = iota
	KindComponentNotFound
	KindPermissionDenied
	KindRemoteScopeNotFound
	KindMergeConflictOnRemote
	KindGenericRemoteError
	KindOldClientVersion
	KindExportAnotherOwnerPrivate
	KindInvalidResponse
	KindProtocolVersionMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindComponentNotFound:
		return "ComponentNotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindRemoteScopeNotFound:
		return "RemoteScopeNotFound"
	case KindMergeConflictOnRemote:
		return "MergeConflictOnRemote"
	case KindGenericRemoteError:
		return "GenericRemoteError"
	case KindOldClientVersion:
		return "OldClientVersion"
	case KindExportAnotherOwnerPrivate:
		return "ExportAnotherOwnerPrivate"
	case KindInvalidResponse:
		return "InvalidResponse"
	case KindProtocolVersionMismatch:
		return "ProtocolVersionMismatch"
	default:
		return "UnexpectedNetworkError"
	}
}

// Error is the single tagged error type for every remote-execution failure.
// Only the fields relevant to the Kind are populated; it is constructed
// exclusively by the exit-code translator and the response decoders.
type Error struct {
	Kind     ErrorKind
	Message  string
	ExitCode int

	// ComponentNotFound
	ID string

	// RemoteScopeNotFound
	Name string

	// PermissionDenied
	Host string
	Path string

	// MergeConflictOnRemote
	IDsAndVersions []string

	// ExportAnotherOwnerPrivate
	SourceScope      string
	DestinationScope string

	// InvalidResponse — the offending response text, verbatim
	Raw string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindComponentNotFound:
		return fmt.Sprintf("component %s was not found on the remote scope", e.ID)
	case KindPermissionDenied:
		return fmt.Sprintf("permission denied for scope %s%s", e.Host, e.Path)
	case KindRemoteScopeNotFound:
		return fmt.Sprintf("remote scope %s was not found", e.Name)
	case KindMergeConflictOnRemote:
		return fmt.Sprintf("merge conflict on remote scope for: %s", strings.Join(e.IDsAndVersions, ", "))
	case KindGenericRemoteError:
		return e.Message
	case KindOldClientVersion:
		return fmt.Sprintf("client version is too old for the remote scope: %s", e.Message)
	case KindExportAnotherOwnerPrivate:
		return fmt.Sprintf("export blocked (%s): component depends on a private scope %s not owned by destination %s", e.Message, e.SourceScope, e.DestinationScope)
	case KindInvalidResponse:
		return fmt.Sprintf("invalid response from remote scope: %s", e.Raw)
	case KindProtocolVersionMismatch:
		return e.Message
	default:
		return fmt.Sprintf("unexpected network error (exit code %d): %s", e.ExitCode, e.Message)
	}
}

// Is lets callers match on the kind with errors.Is against a prototype.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
