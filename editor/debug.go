//go:build pianoroll_debug

package editor

import "fmt"

// violated panics in debug builds, so that broken invariants are caught
// where they happen.
func violated(err error) {
	panic(fmt.Errorf("invariant violated: %w", err))
}
