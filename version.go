package gringotts

import (
	"strconv"
	"strings"
)

// libraryVersion is the release of this package, in major.minor.patch form
const libraryVersion = "1.0.0"

// Version returns the library version string
func Version() string {
	return libraryVersion
}

// IntVersion returns the version as a comparable integer of the form
// major*10000 + minor*100 + patch
func IntVersion() int {
	parts := strings.SplitN(libraryVersion, ".", 3)
	weights := []int{10000, 100, 1}
	v := 0
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		v += n * weights[i]
	}
	return v
}
