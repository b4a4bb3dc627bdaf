package voc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const catXML = `<annotation>
	<folder>images</folder>
	<filename>cat.jpg</filename>
	<size>
		<width>100</width>
		<height>50</height>
		<depth>3</depth>
	</size>
	<object>
		<name>cat</name>
		<pose>Unspecified</pose>
		<truncated>0</truncated>
		<difficult>0</difficult>
		<bndbox>
			<xmin>10</xmin>
			<ymin>5</ymin>
			<xmax>90</xmax>
			<ymax>45</ymax>
		</bndbox>
	</object>
	<object>
		<name>dog</name>
		<pose>Left</pose>
		<truncated>1</truncated>
		<difficult>1</difficult>
		<bndbox>
			<xmin>1</xmin>
			<ymin>2</ymin>
			<xmax>3</xmax>
			<ymax>4</ymax>
		</bndbox>
	</object>
</annotation>`

func TestParse(t *testing.T) {
	ann, err := Parse([]byte(catXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ann.Filename != "cat.jpg" {
		t.Errorf("Filename = %q, want cat.jpg", ann.Filename)
	}
	if ann.Width != 100 || ann.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", ann.Width, ann.Height)
	}
	if len(ann.Objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(ann.Objects))
	}

	// Declaration order must be preserved.
	cat := ann.Objects[0]
	if cat.Name != "cat" {
		t.Errorf("Objects[0].Name = %q, want cat", cat.Name)
	}
	if cat.BndBox != (BndBox{XMin: 10, YMin: 5, XMax: 90, YMax: 45}) {
		t.Errorf("Objects[0].BndBox = %+v", cat.BndBox)
	}
	if cat.Difficult || cat.Truncated {
		t.Errorf("Objects[0] flags = difficult %v truncated %v, want false false", cat.Difficult, cat.Truncated)
	}
	if cat.Pose != "Unspecified" {
		t.Errorf("Objects[0].Pose = %q", cat.Pose)
	}

	dog := ann.Objects[1]
	if dog.Name != "dog" || !dog.Difficult || !dog.Truncated || dog.Pose != "Left" {
		t.Errorf("Objects[1] = %+v", dog)
	}
}

func TestParseNoObjects(t *testing.T) {
	ann, err := Parse([]byte(`<annotation>
		<filename>empty.jpg</filename>
		<size><width>10</width><height>10</height></size>
	</annotation>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ann.Objects) != 0 {
		t.Errorf("got %d objects, want 0", len(ann.Objects))
	}
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<annotation><filename>cat.jpg`))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %T (%v), want *ParseError", err, err)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	object := func(inner string) string {
		return `<annotation>
			<filename>cat.jpg</filename>
			<size><width>100</width><height>50</height></size>
			<object>` + inner + `</object>
		</annotation>`
	}
	full := map[string]string{
		"name":      `<name>cat</name>`,
		"pose":      `<pose>Unspecified</pose>`,
		"truncated": `<truncated>0</truncated>`,
		"difficult": `<difficult>0</difficult>`,
		"bndbox":    `<bndbox><xmin>1</xmin><ymin>2</ymin><xmax>3</xmax><ymax>4</ymax></bndbox>`,
	}
	objectWithout := func(field string) string {
		var inner string
		for k, v := range full {
			if k != field {
				inner += v
			}
		}
		return object(inner)
	}

	cases := []struct {
		name  string
		doc   string
		field string
	}{
		{"missing filename", `<annotation><size><width>1</width><height>1</height></size></annotation>`, "filename"},
		{"missing width", `<annotation><filename>x.jpg</filename><size><height>1</height></size></annotation>`, "size/width"},
		{"missing height", `<annotation><filename>x.jpg</filename><size><width>1</width></size></annotation>`, "size/height"},
		{"zero width", `<annotation><filename>x.jpg</filename><size><width>0</width><height>1</height></size></annotation>`, "size/width"},
		{"missing name", objectWithout("name"), "object[0]/name"},
		{"missing pose", objectWithout("pose"), "object[0]/pose"},
		{"missing truncated", objectWithout("truncated"), "object[0]/truncated"},
		{"missing difficult", objectWithout("difficult"), "object[0]/difficult"},
		{"missing bndbox", objectWithout("bndbox"), "object[0]/bndbox"},
		{"missing xmax", object(full["name"] + full["pose"] + full["truncated"] + full["difficult"] +
			`<bndbox><xmin>1</xmin><ymin>2</ymin><ymax>4</ymax></bndbox>`), "object[0]/bndbox/xmax"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			var serr *SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("got %T (%v), want *SchemaError", err, err)
			}
			if serr.Field != tc.field {
				t.Errorf("Field = %q, want %q", serr.Field, tc.field)
			}
		})
	}
}

func TestParseLatin1Charset(t *testing.T) {
	// 0xE9 is é in latin-1 and invalid UTF-8 on its own.
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<annotation><filename>caf\xe9.jpg</filename>" +
		"<size><width>10</width><height>10</height></size></annotation>"
	ann, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ann.Filename != "café.jpg" {
		t.Errorf("Filename = %q, want café.jpg", ann.Filename)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat.xml")
	if err := os.WriteFile(path, []byte(catXML), 0o644); err != nil {
		t.Fatal(err)
	}

	ann, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(ann.Objects) != 2 {
		t.Errorf("got %d objects, want 2", len(ann.Objects))
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.xml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseErrorIncludesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(path, []byte("<annotation>"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ParseFile(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %T, want *ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("Path = %q, want %q", perr.Path, path)
	}
}
