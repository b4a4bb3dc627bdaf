package convert

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"

	_ "image/gif"  // registered so a mislabelled file is reported by name
	_ "image/jpeg" // the format records must contain
	_ "image/png"  // registered so a mislabelled file is reported by name

	"github.com/skoglund/voc2record/pkg/labelmap"
	"github.com/skoglund/voc2record/pkg/tfrecord"
	"github.com/skoglund/voc2record/pkg/voc"
)

const imageFormat = "jpeg"

// RecordStats counts the objects handled while building a single record.
type RecordStats struct {
	Objects        int // Objects retained in the record
	SkippedObjects int // Difficult objects dropped by the skip policy
}

// BuildRecord assembles one tf.train.Example from an annotation and the
// raw bytes of its image.
//
// The image bytes are stored as-is; decoding only verifies that the
// content really is JPEG. Bounding boxes are emitted as fractions of the
// declared image dimensions, without clamping, in annotation declaration
// order. All per-object feature lists come out the same length: one entry
// per retained object.
func BuildRecord(imagePath string, ann voc.Annotation, imageBytes []byte, labels *labelmap.LabelMap, skipDifficult bool) (*tfrecord.Example, RecordStats, error) {
	var stats RecordStats

	_, format, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, stats, &ImageFormatError{Path: imagePath, Detected: "unknown", Err: err}
	}
	if format != imageFormat {
		return nil, stats, &ImageFormatError{Path: imagePath, Detected: format}
	}

	digest := sha256.Sum256(imageBytes)
	key := hex.EncodeToString(digest[:])

	width := float64(ann.Width)
	height := float64(ann.Height)

	var (
		xmins, xmaxs, ymins, ymaxs []float32
		classTexts, views          [][]byte
		classIDs, difficult        []int64
		truncated                  []int64
	)
	for _, obj := range ann.Objects {
		if skipDifficult && obj.Difficult {
			stats.SkippedObjects++
			continue
		}
		id, ok := labels.Lookup(obj.Name)
		if !ok {
			return nil, stats, &UnknownLabelError{Path: imagePath, Label: obj.Name}
		}
		xmins = append(xmins, float32(obj.BndBox.XMin/width))
		xmaxs = append(xmaxs, float32(obj.BndBox.XMax/width))
		ymins = append(ymins, float32(obj.BndBox.YMin/height))
		ymaxs = append(ymaxs, float32(obj.BndBox.YMax/height))
		classTexts = append(classTexts, []byte(obj.Name))
		classIDs = append(classIDs, int64(id))
		difficult = append(difficult, boolToInt64(obj.Difficult))
		truncated = append(truncated, boolToInt64(obj.Truncated))
		views = append(views, []byte(obj.Pose))
		stats.Objects++
	}

	ex := tfrecord.NewExample()
	ex.SetInts("image/height", []int64{int64(ann.Height)})
	ex.SetInts("image/width", []int64{int64(ann.Width)})
	ex.SetBytes("image/filename", []byte(ann.Filename))
	ex.SetBytes("image/source_id", []byte(ann.Filename))
	ex.SetBytes("image/key/sha256", []byte(key))
	ex.SetBytes("image/encoded", imageBytes)
	ex.SetBytes("image/format", []byte(imageFormat))
	ex.SetFloats("image/object/bbox/xmin", xmins)
	ex.SetFloats("image/object/bbox/xmax", xmaxs)
	ex.SetFloats("image/object/bbox/ymin", ymins)
	ex.SetFloats("image/object/bbox/ymax", ymaxs)
	ex.SetBytesList("image/object/class/text", classTexts)
	ex.SetInts("image/object/class/label", classIDs)
	ex.SetInts("image/object/difficult", difficult)
	ex.SetInts("image/object/truncated", truncated)
	ex.SetBytesList("image/object/view", views)
	return ex, stats, nil
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
