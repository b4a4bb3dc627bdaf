// voc2record is a command-line tool for converting a PascalVOC annotated
// image dataset into a TFRecord file.
//
// The dataset directory must contain JPEG images and their PascalVOC XML
// annotations side by side, matched by filename stem (cat.jpg + cat.xml).
// Label names are resolved to integer ids through a .pbtxt label map, and
// each image/annotation pair becomes one tf.train.Example record in the
// output .record file.
//
// Usage:
//
//	voc2record -d dataset/ -l labels.pbtxt -o train.record [options]
//
// Required flags:
//
//	-d, -dataset string    Directory with the images and XML annotations
//	-l, -label-map string  Label map file (.pbtxt)
//	-o, -output string     Output file (.record)
//
// Options:
//
//	-s, -skip-difficult    Drop objects marked difficult
//	-f, -force             Overwrite an existing output file and create
//	                       missing parent directories (may cause data loss)
//	-v, -verbose           Per-pair diagnostics
//	-workers int           Concurrent record builders (default 1); output
//	                       order is the same regardless
//	-summary string        Also write a YAML run summary to this path
//
// Pairs that fail to convert (malformed XML, a non-JPEG image, a label
// missing from the map) are skipped with a warning and listed in the
// end-of-run summary rather than aborting the whole run.
//
// Example:
//
//	voc2record -d ./train -l ./labels.pbtxt -o ./train.record -s -v
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/skoglund/voc2record/pkg/convert"
)

// Terminal colours, Blender style.
const (
	colInfo    = "\033[92m"
	colWarning = "\033[93m"
	colError   = "\033[91m"
	colBold    = "\033[1m"
	colEnd     = "\033[0m"
)

func main() {
	cfg := convert.DefaultConfig()

	flag.StringVar(&cfg.DatasetDir, "dataset", "", "Directory containing the PascalVOC dataset (images and XML annotations together)")
	flag.StringVar(&cfg.DatasetDir, "d", "", "Shorthand for -dataset")
	flag.StringVar(&cfg.LabelMapPath, "label-map", "", "Label map file mapping label names to ids (.pbtxt)")
	flag.StringVar(&cfg.LabelMapPath, "l", "", "Shorthand for -label-map")
	flag.StringVar(&cfg.OutputPath, "output", "", "Output file for the TFRecord data (.record)")
	flag.StringVar(&cfg.OutputPath, "o", "", "Shorthand for -output")
	flag.BoolVar(&cfg.SkipDifficult, "skip-difficult", false, "Drop objects marked difficult")
	flag.BoolVar(&cfg.SkipDifficult, "s", false, "Shorthand for -skip-difficult")
	flag.BoolVar(&cfg.Force, "force", false, "Overwrite an existing output file and create missing parent directories")
	flag.BoolVar(&cfg.Force, "f", false, "Shorthand for -force")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Per-pair diagnostics")
	flag.BoolVar(&cfg.Verbose, "v", false, "Shorthand for -verbose")
	flag.IntVar(&cfg.Workers, "workers", 1, "Concurrent record builders; output order does not depend on this")
	summaryPath := flag.String("summary", "", "Also write a YAML run summary to this path")
	flag.Parse()

	missing := false
	requireFlag := func(name, value string) {
		if value == "" {
			fmt.Fprintf(os.Stderr, "%sError: -%s is required%s\n", colError, name, colEnd)
			missing = true
		}
	}
	requireFlag("dataset", cfg.DatasetDir)
	requireFlag("label-map", cfg.LabelMapPath)
	requireFlag("output", cfg.OutputPath)
	if missing {
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if cfg.Force {
		fmt.Printf("%sWARNING: the %s-f%s%s flag allows the program to overwrite existing files "+
			"and recursively create directories. Only use it if you understand this.%s\n",
			colWarning, colBold, colEnd, colWarning, colEnd)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := convert.Run(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colError, err, colEnd)
		os.Exit(1)
	}

	sum.Write(os.Stdout, cfg.Verbose)
	if sum.Failed() {
		fmt.Printf("%s%d pairs were skipped, see the summary above.%s\n",
			colWarning, len(sum.SkippedPairs), colEnd)
	}
	fmt.Printf("%sTFRecord dataset written to %s%s\n", colInfo, cfg.OutputPath, colEnd)

	if *summaryPath != "" {
		data, err := yaml.Marshal(sum)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%sError: marshalling summary: %v%s\n", colError, err, colEnd)
			os.Exit(1)
		}
		if err := os.WriteFile(*summaryPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "%sError: writing summary: %v%s\n", colError, err, colEnd)
			os.Exit(1)
		}
	}
}
