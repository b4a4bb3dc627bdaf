// Package voc parses PascalVOC annotation documents into structured values.
//
// PascalVOC is an XML convention for describing labelled bounding boxes in
// images: one document per image, carrying the image filename, its pixel
// dimensions, and zero or more labelled objects. Object order in the
// document is preserved, since downstream consumers align per-object data
// by index.
package voc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Raw document shape as decoded from XML. Pointer fields distinguish an
// absent element from a zero value so schema checks can name what's missing.
type xmlAnnotation struct {
	XMLName  xml.Name `xml:"annotation"`
	Filename string   `xml:"filename"`
	Size     struct {
		Width  *int `xml:"width"`
		Height *int `xml:"height"`
	} `xml:"size"`
	Objects []xmlObject `xml:"object"`
}

type xmlObject struct {
	Name      *string    `xml:"name"`
	Pose      *string    `xml:"pose"`
	Truncated *int       `xml:"truncated"`
	Difficult *int       `xml:"difficult"`
	BndBox    *xmlBndBox `xml:"bndbox"`
}

type xmlBndBox struct {
	XMin *float64 `xml:"xmin"`
	YMin *float64 `xml:"ymin"`
	XMax *float64 `xml:"xmax"`
	YMax *float64 `xml:"ymax"`
}

// ParseFile reads and parses a PascalVOC annotation file.
func ParseFile(path string) (Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Annotation{}, err
	}
	return parse(data, path)
}

// Parse parses PascalVOC annotation data.
// It returns a *ParseError for malformed XML and a *SchemaError when a
// required field is missing or invalid.
func Parse(data []byte) (Annotation, error) {
	return parse(data, "")
}

func parse(data []byte, path string) (Annotation, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var doc xmlAnnotation
	if err := dec.Decode(&doc); err != nil {
		return Annotation{}, &ParseError{Path: path, Err: err}
	}

	ann := Annotation{Filename: doc.Filename}
	if doc.Filename == "" {
		return Annotation{}, &SchemaError{Path: path, Field: "filename", Reason: "missing"}
	}
	switch {
	case doc.Size.Width == nil:
		return Annotation{}, &SchemaError{Path: path, Field: "size/width", Reason: "missing"}
	case doc.Size.Height == nil:
		return Annotation{}, &SchemaError{Path: path, Field: "size/height", Reason: "missing"}
	case *doc.Size.Width <= 0:
		return Annotation{}, &SchemaError{Path: path, Field: "size/width", Reason: fmt.Sprintf("must be positive, got %d", *doc.Size.Width)}
	case *doc.Size.Height <= 0:
		return Annotation{}, &SchemaError{Path: path, Field: "size/height", Reason: fmt.Sprintf("must be positive, got %d", *doc.Size.Height)}
	}
	ann.Width = *doc.Size.Width
	ann.Height = *doc.Size.Height

	for i, raw := range doc.Objects {
		obj, err := convertObject(raw, i, path)
		if err != nil {
			return Annotation{}, err
		}
		ann.Objects = append(ann.Objects, obj)
	}
	return ann, nil
}

func convertObject(raw xmlObject, index int, path string) (Object, error) {
	missing := func(field string) error {
		return &SchemaError{
			Path:   path,
			Field:  fmt.Sprintf("object[%d]/%s", index, field),
			Reason: "missing",
		}
	}

	switch {
	case raw.Name == nil || *raw.Name == "":
		return Object{}, missing("name")
	case raw.Pose == nil:
		return Object{}, missing("pose")
	case raw.Difficult == nil:
		return Object{}, missing("difficult")
	case raw.Truncated == nil:
		return Object{}, missing("truncated")
	case raw.BndBox == nil:
		return Object{}, missing("bndbox")
	case raw.BndBox.XMin == nil:
		return Object{}, missing("bndbox/xmin")
	case raw.BndBox.YMin == nil:
		return Object{}, missing("bndbox/ymin")
	case raw.BndBox.XMax == nil:
		return Object{}, missing("bndbox/xmax")
	case raw.BndBox.YMax == nil:
		return Object{}, missing("bndbox/ymax")
	}

	return Object{
		Name: *raw.Name,
		BndBox: BndBox{
			XMin: *raw.BndBox.XMin,
			YMin: *raw.BndBox.YMin,
			XMax: *raw.BndBox.XMax,
			YMax: *raw.BndBox.YMax,
		},
		Pose:      *raw.Pose,
		Difficult: *raw.Difficult != 0,
		Truncated: *raw.Truncated != 0,
	}, nil
}

// charsetReader handles the encodings PascalVOC exports show up in.
// Annotations written by older labelling tools occasionally declare latin-1.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported annotation charset %q", charset)
}
