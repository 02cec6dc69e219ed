package scope

import (
	"fmt"
	"strings"
	"sync"
)

// ProtocolVersion is the envelope version this client speaks. Compatibility
// is a major-version match.
const ProtocolVersion = "1.4.0"

var (
	versionsMu      sync.Mutex
	checkedVersions = map[string]error{}
)

// CheckVersionCompatibility verifies a remote envelope version against
// ProtocolVersion. The check runs once per distinct version string for the
// lifetime of the process; subsequent calls return the memoized outcome.
func CheckVersionCompatibility(remote string) error {
	versionsMu.Lock()
	defer versionsMu.Unlock()

	if err, ok := checkedVersions[remote]; ok {
		return err
	}

	err := compareVersions(remote)
	checkedVersions[remote] = err

	return err
}

func compareVersions(remote string) error {
	if majorOf(remote) == majorOf(ProtocolVersion) {
		return nil
	}

	return &Error{
		Kind: KindProtocolVersionMismatch,
		Message: fmt.Sprintf(
			"incompatible remote scope protocol version %q (client speaks %q); update the older side",
			remote, ProtocolVersion,
		),
	}
}

func majorOf(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}

// resetVersionChecks clears the memoized outcomes. Test helper only.
func resetVersionChecks() {
	versionsMu.Lock()
	defer versionsMu.Unlock()
	checkedVersions = map[string]error{}
}
