package logging

import "strings"

// FormatSubject builds the run/stage subject shown after the component in
// console output. Run identifiers are shortened to their first block.
func FormatSubject(runID, stage string) string {
	runID = strings.TrimSpace(runID)
	stage = strings.TrimSpace(stage)
	if short, _, ok := strings.Cut(runID, "-"); ok {
		runID = short
	}
	switch {
	case runID != "" && stage != "":
		return "run " + runID + " (" + stage + ")"
	case runID != "":
		return "run " + runID
	default:
		return stage
	}
}
