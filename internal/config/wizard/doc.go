// Package wizard provides the interactive form behind `stackplan init`.
//
// It uses charmbracelet/huh to collect the handful of choices that differ
// between stacks: name and region, the stream server's size and exposure,
// whether frames are analysed, and where artifacts and state live. Run
// returns a Result; ToConfig turns it into a fully defaulted config.Config.
package wizard
