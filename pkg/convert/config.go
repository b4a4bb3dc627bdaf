// Package convert turns a PascalVOC-annotated image directory into a
// TFRecord dataset file.
//
// The conversion runs in two stages: PairFiles matches images to their
// annotation documents by filename stem, then Run reads each pair, builds a
// tf.train.Example record (raw JPEG bytes, SHA-256 integrity key, and
// per-object parallel feature lists with coordinates normalized to [0,1])
// and appends it to the output stream. A failing pair is skipped and
// reported in the run summary; only output-stream failures abort the run.
package convert

import (
	"io"
	"os"
)

// Config holds the user options for one conversion run.
type Config struct {
	DatasetDir    string    // Directory containing images and annotation XML files
	LabelMapPath  string    // Path to the .pbtxt label map
	OutputPath    string    // Destination .record file
	SkipDifficult bool      // Drop objects marked difficult
	Force         bool      // Overwrite an existing output and create parent directories
	Verbose       bool      // Per-pair diagnostics
	Workers       int       // Concurrent record builders; <=1 runs sequentially
	Logger        io.Writer // Destination for diagnostics (nil = stdout)
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers: 1,
		Logger:  nil, // stdout
	}
}

// logger returns the io.Writer diagnostics go to, defaulting to os.Stdout
// when none is configured.
func (c Config) logger() io.Writer {
	if c.Logger == nil {
		return os.Stdout
	}
	return c.Logger
}
