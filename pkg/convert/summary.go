package convert

import (
	"fmt"
	"io"
	"path/filepath"
)

// SkippedPair records one pair that failed to convert and why.
type SkippedPair struct {
	Image  string `yaml:"image"`
	Reason string `yaml:"reason"`
}

// Summary reports the outcome of one conversion run. It marshals to YAML
// for the optional machine-readable run report.
type Summary struct {
	ImagesFound       int           `yaml:"images_found"`
	AnnotationsFound  int           `yaml:"annotations_found"`
	Pairs             int           `yaml:"pairs"`
	RecordsWritten    int           `yaml:"records_written"`
	ObjectsWritten    int           `yaml:"objects_written"`
	DifficultSkipped  int           `yaml:"difficult_objects_skipped"`
	UnmatchedImages   []string      `yaml:"unmatched_images,omitempty"`
	UnusedAnnotations []string      `yaml:"unused_annotations,omitempty"`
	DuplicateImages   []string      `yaml:"duplicate_images,omitempty"`
	SkippedPairs      []SkippedPair `yaml:"skipped_pairs,omitempty"`
}

func newSummary(report *PairReport, pairs int) *Summary {
	return &Summary{
		ImagesFound:       report.ImagesFound,
		AnnotationsFound:  report.AnnotationsFound,
		Pairs:             pairs,
		UnmatchedImages:   report.UnmatchedImages,
		UnusedAnnotations: report.UnusedAnnotations,
		DuplicateImages:   report.DuplicateImages,
	}
}

// reportPairing prints the pairing warnings before conversion starts, so
// unmatched files show up even if the run later aborts.
func (s *Summary) reportPairing(cfg Config) {
	log := cfg.logger()
	for _, img := range s.UnmatchedImages {
		fmt.Fprintf(log, "WARNING: image without label: %s\n", img)
	}
	for _, img := range s.DuplicateImages {
		fmt.Fprintf(log, "WARNING: duplicate image for an already paired stem, skipping: %s\n", img)
	}
	for _, ann := range s.UnusedAnnotations {
		fmt.Fprintf(log, "WARNING: label without image: %s\n", ann)
	}
}

func (s *Summary) recordWritten(cfg Config, p Pair, stats RecordStats) {
	s.RecordsWritten++
	s.ObjectsWritten += stats.Objects
	s.DifficultSkipped += stats.SkippedObjects
	if cfg.Verbose {
		fmt.Fprintf(cfg.logger(), "converted %s (%d objects", filepath.Base(p.Image), stats.Objects)
		if stats.SkippedObjects > 0 {
			fmt.Fprintf(cfg.logger(), ", %d difficult skipped", stats.SkippedObjects)
		}
		fmt.Fprintln(cfg.logger(), ")")
	}
}

func (s *Summary) recordSkip(cfg Config, p Pair, err error) {
	s.SkippedPairs = append(s.SkippedPairs, SkippedPair{
		Image:  filepath.Base(p.Image),
		Reason: err.Error(),
	})
	fmt.Fprintf(cfg.logger(), "WARNING: skipping %s: %v\n", filepath.Base(p.Image), err)
}

// Write renders the human-readable end-of-run report.
func (s *Summary) Write(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "Found %d images and %d annotations, paired %d.\n",
		s.ImagesFound, s.AnnotationsFound, s.Pairs)
	fmt.Fprintf(w, "Wrote %d records (%d objects", s.RecordsWritten, s.ObjectsWritten)
	if s.DifficultSkipped > 0 {
		fmt.Fprintf(w, ", %d difficult objects skipped", s.DifficultSkipped)
	}
	fmt.Fprintln(w, ").")
	if len(s.SkippedPairs) > 0 {
		fmt.Fprintf(w, "Skipped %d pairs:\n", len(s.SkippedPairs))
		for _, sk := range s.SkippedPairs {
			fmt.Fprintf(w, "  %s: %s\n", sk.Image, sk.Reason)
		}
	}
	if verbose {
		for _, img := range s.UnmatchedImages {
			fmt.Fprintf(w, "  image without label: %s\n", img)
		}
		for _, ann := range s.UnusedAnnotations {
			fmt.Fprintf(w, "  label without image: %s\n", ann)
		}
		for _, img := range s.DuplicateImages {
			fmt.Fprintf(w, "  duplicate image: %s\n", img)
		}
	}
}

// Failed reports whether any pair was skipped. Exposed so callers can pick
// an exit status that distinguishes clean runs from partial ones.
func (s *Summary) Failed() bool { return len(s.SkippedPairs) > 0 }
