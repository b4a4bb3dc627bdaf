package voc

// Annotation is one parsed PascalVOC annotation document.
type Annotation struct {
	Filename string   // Image filename as declared in the annotation
	Width    int      // Declared image width in pixels
	Height   int      // Declared image height in pixels
	Objects  []Object // Labelled objects in declaration order
}

// Object is one labelled bounding box within an annotation.
type Object struct {
	Name      string // Label name
	BndBox    BndBox // Raw pixel coordinates
	Pose      string // Pose/view hint, usually "Unspecified"
	Difficult bool   // Object is marked hard to recognize
	Truncated bool   // Object extends beyond the image edge
}

// BndBox is a rectangle in raw pixel coordinates.
// X1/Y1 is the top-left corner, X2/Y2 the bottom-right corner.
type BndBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}
