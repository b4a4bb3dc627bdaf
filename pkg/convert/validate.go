package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Required file extensions for the label map and the output file.
const (
	LabelMapExt = ".pbtxt"
	OutputExt   = ".record"
)

// ValidatePaths checks every path precondition for a run without touching
// the filesystem beyond stat calls. All failures are *PreconditionError.
func ValidatePaths(cfg Config) error {
	info, err := os.Stat(cfg.DatasetDir)
	switch {
	case os.IsNotExist(err):
		return &PreconditionError{Flag: "-dataset", Path: cfg.DatasetDir, Reason: "path does not exist"}
	case err != nil:
		return &PreconditionError{Flag: "-dataset", Path: cfg.DatasetDir, Reason: err.Error()}
	case !info.IsDir():
		return &PreconditionError{Flag: "-dataset", Path: cfg.DatasetDir, Reason: "path is a file, expected a directory"}
	}

	info, err = os.Stat(cfg.LabelMapPath)
	switch {
	case os.IsNotExist(err):
		return &PreconditionError{Flag: "-label-map", Path: cfg.LabelMapPath, Reason: "file does not exist"}
	case err != nil:
		return &PreconditionError{Flag: "-label-map", Path: cfg.LabelMapPath, Reason: err.Error()}
	case info.IsDir():
		return &PreconditionError{Flag: "-label-map", Path: cfg.LabelMapPath, Reason: "path is a directory, expected a file"}
	}
	if ext := filepath.Ext(cfg.LabelMapPath); !strings.EqualFold(ext, LabelMapExt) {
		return &PreconditionError{
			Flag:   "-label-map",
			Path:   cfg.LabelMapPath,
			Reason: fmt.Sprintf("file extension must be %s, got %q", LabelMapExt, ext),
		}
	}

	if ext := filepath.Ext(cfg.OutputPath); !strings.EqualFold(ext, OutputExt) {
		return &PreconditionError{
			Flag:   "-output",
			Path:   cfg.OutputPath,
			Reason: fmt.Sprintf("file extension must be %s, got %q", OutputExt, ext),
		}
	}
	info, err = os.Stat(cfg.OutputPath)
	switch {
	case err == nil && info.IsDir():
		return &PreconditionError{Flag: "-output", Path: cfg.OutputPath, Reason: "path is a directory, expected a file"}
	case err == nil && !cfg.Force:
		return &PreconditionError{Flag: "-output", Path: cfg.OutputPath, Reason: "file already exists, pass -force to overwrite"}
	case err != nil && !os.IsNotExist(err):
		return &PreconditionError{Flag: "-output", Path: cfg.OutputPath, Reason: err.Error()}
	}
	parent := filepath.Dir(cfg.OutputPath)
	if _, err := os.Stat(parent); os.IsNotExist(err) && !cfg.Force {
		return &PreconditionError{
			Flag:   "-output",
			Path:   cfg.OutputPath,
			Reason: "parent directory does not exist, pass -force to create it",
		}
	}
	return nil
}

// prepareOutput applies the destructive part of the force policy: parent
// directory creation and removal of a pre-existing output file.
// ValidatePaths has already rejected these situations when Force is off.
func prepareOutput(cfg Config) error {
	if !cfg.Force {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.Remove(cfg.OutputPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing output: %w", err)
	}
	return nil
}
