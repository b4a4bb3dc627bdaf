package convert

import "fmt"

// PreconditionError reports an invalid input or output path. Preconditions
// are checked before any dataset file is read and before the output is
// touched, so a failing run leaves the filesystem as it was.
type PreconditionError struct {
	Flag   string // CLI flag the path came from, e.g. "-output"
	Path   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Flag, e.Path, e.Reason)
}

// ImageFormatError reports an image whose content does not match the
// expected JPEG encoding. The raw bytes go into the record unmodified, so a
// mislabelled file would poison the dataset downstream.
type ImageFormatError struct {
	Path     string
	Detected string // Decoded format name, or "unknown"
	Err      error  // Decoder error when the format was unrecognizable
}

func (e *ImageFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: expected jpeg image data: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: expected jpeg image data, detected %s", e.Path, e.Detected)
}

func (e *ImageFormatError) Unwrap() error { return e.Err }

// UnknownLabelError reports an object label with no id in the label map.
// It fails the whole record, not just the object: a record referencing a
// label the map cannot resolve is unusable for training.
type UnknownLabelError struct {
	Path  string // Annotation file the label came from
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("%s: label %q is not present in the label map", e.Path, e.Label)
}
