package align

import "github.com/grailbio/base/log"

// warnf logs a recoverable warning (spec §7: "extension returned no valid
// start" and similar conditions are logged, not fatal) without aborting the
// read's remaining candidates.
func warnf(format string, args ...interface{}) {
	log.Error.Printf(format, args...)
}
