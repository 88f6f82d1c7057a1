// Package version identifies the SDK release.
package version

// Current is the SDK version.
const Current = "0.1.0"
