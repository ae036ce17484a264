package ir

import "fmt"

// Exporter version, written to the document metadata as "major.minor.patch".
const (
	VersionMajor = 1
	VersionMinor = 2
	VersionPatch = 0
)

// Version returns the exporter version string.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
