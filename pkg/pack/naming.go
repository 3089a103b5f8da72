// SPDX-License-Identifier: MPL-2.0

// Package pack provides the bundled resource.Pack implementations.
//
// A pack directory is a folder whose name ends with ".jmrpack". It holds an
// optional manifest (pack.cue, pack_manifest.json, pack.yaml/pack.yml, or
// pack.toml) and either a resources/ directory or a zip archive:
//
//	lucide.jmrpack/
//	    pack.cue
//	    resources/
//	        lightbulb.svg
//	        outlined/home.svg
//
// Open turns such a directory into a DirPack or a ZipPack. MemoryPack serves
// resources registered in code.
package pack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Suffix is the directory suffix that marks a pack directory.
const Suffix = ".jmrpack"

var (
	// ErrInvalidPackName is the sentinel error wrapped by InvalidPackNameError.
	ErrInvalidPackName = errors.New("invalid pack name")

	// packNameRegex is stricter than a prefix: the name also has to be a
	// portable directory name.
	packNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// InvalidPackNameError is returned when a pack directory name cannot be used
// as a pack name.
type InvalidPackNameError struct {
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidPackNameError) Error() string {
	return fmt.Sprintf("invalid pack name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPackName for errors.Is() compatibility.
func (e *InvalidPackNameError) Unwrap() error { return ErrInvalidPackName }

// IsPackDir reports whether path is an existing directory with a valid pack
// directory name. It does not look at the contents; Open does.
func IsPackDir(path string) bool {
	if _, err := ParsePackName(filepath.Base(path)); err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ParsePackName returns the pack name encoded in a pack directory name
// ("lucide.jmrpack" -> "lucide").
func ParsePackName(folderName string) (string, error) {
	if !strings.HasSuffix(folderName, Suffix) {
		return "", &InvalidPackNameError{Value: folderName, Reason: fmt.Sprintf("folder name must end with %q", Suffix)}
	}
	name := strings.TrimSuffix(folderName, Suffix)
	if name == "" {
		return "", &InvalidPackNameError{Value: folderName, Reason: "name before the suffix is empty"}
	}
	if !packNameRegex.MatchString(name) {
		return "", &InvalidPackNameError{
			Value:  folderName,
			Reason: "must start with a letter or digit and contain only letters, digits, '.', '_' or '-'",
		}
	}
	return name, nil
}
