package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"reeldiary/internal/workflow"
)

func printArtifact(out io.Writer, label, unit string, artifact workflow.Artifact) {
	fmt.Fprintf(out, "%s written to %s\n", label, artifact.Path)
	fmt.Fprintf(out, "  %s %s, %s in %s\n",
		humanize.Comma(int64(artifact.Items)),
		unit,
		humanize.Bytes(uint64(artifact.Bytes)),
		artifact.Duration.Round(time.Millisecond))
}
