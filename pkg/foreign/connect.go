package foreign

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// SupportedABI is the foreign core ABI major version this bridge speaks.
const SupportedABI = "v1"

// minABIVersion is the oldest core this bridge can host; earlier v1 cores
// lack the hook drop primitive.
const minABIVersion = "v1.1.0"

// Connect validates that the core's ABI version is compatible with this
// bridge. Hosts call it once before building a registry; a version
// mismatch here is the only fatal error in the bridge, everything past
// this point degrades per-subtree.
func Connect(core Core) error {
	v := core.Version()
	if !semver.IsValid(v) {
		return fmt.Errorf("foreign: core reported invalid ABI version %q", v)
	}
	if semver.Major(v) != SupportedABI {
		return fmt.Errorf("foreign: core ABI %s is incompatible with supported major %s", v, SupportedABI)
	}
	if semver.Compare(v, minABIVersion) < 0 {
		return fmt.Errorf("foreign: core ABI %s is older than minimum %s", v, minABIVersion)
	}
	return nil
}
