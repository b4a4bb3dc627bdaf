package convert

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPairFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "cat.jpg")
	touch(t, dir, "cat.xml")
	touch(t, dir, "dog.jpeg")
	touch(t, dir, "dog.xml")
	touch(t, dir, "stray.jpg")  // no annotation
	touch(t, dir, "orphan.xml") // no image
	touch(t, dir, "notes.txt")  // neither
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	pairs, report, err := PairFiles(dir)
	if err != nil {
		t.Fatalf("PairFiles: %v", err)
	}

	want := []Pair{
		{Image: filepath.Join(dir, "cat.jpg"), Annotation: filepath.Join(dir, "cat.xml")},
		{Image: filepath.Join(dir, "dog.jpeg"), Annotation: filepath.Join(dir, "dog.xml")},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("pairs = %v, want %v", pairs, want)
	}

	if report.ImagesFound != 3 {
		t.Errorf("ImagesFound = %d, want 3", report.ImagesFound)
	}
	if report.AnnotationsFound != 3 {
		t.Errorf("AnnotationsFound = %d, want 3", report.AnnotationsFound)
	}
	if !reflect.DeepEqual(report.UnmatchedImages, []string{"stray.jpg"}) {
		t.Errorf("UnmatchedImages = %v", report.UnmatchedImages)
	}
	if !reflect.DeepEqual(report.UnusedAnnotations, []string{"orphan.xml"}) {
		t.Errorf("UnusedAnnotations = %v", report.UnusedAnnotations)
	}

	if len(pairs) > report.ImagesFound || len(pairs) > report.AnnotationsFound {
		t.Error("pairs must not exceed either input count")
	}
}

func TestPairFilesCaseInsensitiveExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "cat.JPG")
	touch(t, dir, "cat.xml")
	touch(t, dir, "dog.jpeg")
	touch(t, dir, "dog.XML")

	pairs, _, err := PairFiles(dir)
	if err != nil {
		t.Fatalf("PairFiles: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if filepath.Base(pairs[0].Image) != "cat.JPG" {
		t.Errorf("pairs[0].Image = %s", pairs[0].Image)
	}
	if filepath.Base(pairs[1].Annotation) != "dog.XML" {
		t.Errorf("pairs[1].Annotation = %s", pairs[1].Annotation)
	}
}

func TestPairFilesDuplicateStem(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "cat.jpeg")
	touch(t, dir, "cat.jpg")
	touch(t, dir, "cat.xml")

	pairs, report, err := PairFiles(dir)
	if err != nil {
		t.Fatalf("PairFiles: %v", err)
	}
	// Deterministic choice: lexicographically first image wins, and
	// "cat.jpeg" sorts before "cat.jpg".
	if len(pairs) != 1 || filepath.Base(pairs[0].Image) != "cat.jpeg" {
		t.Errorf("pairs = %v, want single cat.jpeg pair", pairs)
	}
	if !reflect.DeepEqual(report.DuplicateImages, []string{"cat.jpg"}) {
		t.Errorf("DuplicateImages = %v", report.DuplicateImages)
	}
}

func TestPairFilesMissingDir(t *testing.T) {
	if _, _, err := PairFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
