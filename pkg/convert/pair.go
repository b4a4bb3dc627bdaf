package convert

import (
	"os"
	"path/filepath"
	"strings"
)

// Accepted image extensions, matched case-insensitively. The set is fixed:
// a stem paired under one extension is consumed for all of them.
var imageExts = []string{".jpg", ".jpeg"}

const annotationExt = ".xml"

// Pair associates one image file with the annotation file sharing its
// filename stem.
type Pair struct {
	Image      string // Image path inside the dataset directory
	Annotation string // Annotation path inside the dataset directory
}

// PairReport collects the pairing diagnostics for a dataset directory.
// None of these are errors: unmatched and duplicate files are skipped and
// reported, the rest of the dataset still converts.
type PairReport struct {
	ImagesFound       int
	AnnotationsFound  int
	UnmatchedImages   []string // Images with no same-stem annotation
	UnusedAnnotations []string // Annotations no image consumed
	DuplicateImages   []string // Further image variants of an already-paired stem
}

// PairFiles scans a dataset directory and matches image files to
// annotation files by filename stem. Directory entries are visited in
// lexicographic order, so pairing is deterministic: when both cat.jpeg and
// cat.jpg exist, cat.jpeg sorts first and wins, and cat.jpg is reported as
// a duplicate.
func PairFiles(dir string) ([]Pair, *PairReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	report := &PairReport{}
	var images []string
	annByStem := make(map[string]string)
	var annotations []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case ext == annotationExt:
			annotations = append(annotations, name)
			annByStem[strings.TrimSuffix(name, filepath.Ext(name))] = name
		case isImageExt(ext):
			images = append(images, name)
		}
	}
	report.ImagesFound = len(images)
	report.AnnotationsFound = len(annotations)

	var pairs []Pair
	consumed := make(map[string]bool)
	for _, img := range images {
		stem := strings.TrimSuffix(img, filepath.Ext(img))
		annName, ok := annByStem[stem]
		switch {
		case !ok:
			report.UnmatchedImages = append(report.UnmatchedImages, img)
		case consumed[stem]:
			report.DuplicateImages = append(report.DuplicateImages, img)
		default:
			consumed[stem] = true
			pairs = append(pairs, Pair{
				Image:      filepath.Join(dir, img),
				Annotation: filepath.Join(dir, annName),
			})
		}
	}

	for _, ann := range annotations {
		if !consumed[strings.TrimSuffix(ann, filepath.Ext(ann))] {
			report.UnusedAnnotations = append(report.UnusedAnnotations, ann)
		}
	}
	return pairs, report, nil
}

func isImageExt(ext string) bool {
	for _, e := range imageExts {
		if ext == e {
			return true
		}
	}
	return false
}
