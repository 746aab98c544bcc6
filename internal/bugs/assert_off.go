//go:build !ci

package bugs

const DebugAssertionsEnabled = false

// DebugAssertf does nothing in non-CI builds.
func DebugAssertf(condition func() bool, format string, args ...any) {
}
