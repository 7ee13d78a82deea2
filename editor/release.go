//go:build !pianoroll_debug

package editor

import "log"

// violated logs the error; the offending operation has already been dropped.
func violated(err error) {
	log.Printf("editor: invariant violated: %v", err)
}
