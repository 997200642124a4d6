package doctext

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// IndexPurpose is the purpose line written at the top of every index.
const IndexPurpose = "Plain-text snapshot of documentation pages, one file per crawled URL."

// FormatIndex renders the top-level index for a run.
// Artifacts are listed by path so the output is stable across runs.
func FormatIndex(run *Run) string {
	generated := run.FinishedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	var b strings.Builder
	b.WriteString("# Documentation Index\n\n")
	b.WriteString("Generated: ")
	b.WriteString(generated.UTC().Format(time.RFC3339))
	b.WriteString("\nPurpose: ")
	b.WriteString(IndexPurpose)
	b.WriteString("\nOrigin: ")
	b.WriteString(run.Origin)
	b.WriteString("\nPages: ")
	b.WriteString(strconv.Itoa(run.PageCount()))
	b.WriteString("\n")

	if len(run.Artifacts) == 0 {
		return b.String()
	}

	artifacts := make([]*Artifact, len(run.Artifacts))
	copy(artifacts, run.Artifacts)
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Path < artifacts[j].Path
	})

	b.WriteString("\n")
	for _, a := range artifacts {
		b.WriteString("- ")
		b.WriteString(a.Path)
		b.WriteString(" <")
		b.WriteString(a.URL)
		b.WriteString(">\n")
	}
	return b.String()
}
