package tfrecord

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// tf.train.Example field numbers. The message graph is fixed and tiny:
//
//	Example   { Features features = 1 }
//	Features  { map<string, Feature> feature = 1 }
//	Feature   { oneof kind { BytesList = 1; FloatList = 2; Int64List = 3 } }
//	BytesList { repeated bytes value = 1 }
//	FloatList { repeated float value = 1 [packed] }
//	Int64List { repeated int64 value = 1 [packed] }
//
// Rather than depending on generated bindings for the TensorFlow protos,
// the encoding is written out directly with protowire.
const (
	exampleFeaturesField = 1
	featuresMapField     = 1
	mapKeyField          = 1
	mapValueField        = 2
	bytesListField       = 1
	floatListField       = 2
	int64ListField       = 3
	listValueField       = 1
)

type featureKind int

const (
	bytesKind featureKind = iota
	floatKind
	intKind
)

type feature struct {
	kind   featureKind
	bytes  [][]byte
	floats []float32
	ints   []int64
}

// Example accumulates named features and serializes them as a
// tf.train.Example message. Setting a key twice replaces its value.
// Marshal output is deterministic: features are encoded in sorted key
// order.
type Example struct {
	features map[string]*feature
}

// NewExample returns an empty Example.
func NewExample() *Example {
	return &Example{features: make(map[string]*feature)}
}

// SetBytes stores a single-element bytes list feature.
func (e *Example) SetBytes(key string, value []byte) {
	e.features[key] = &feature{kind: bytesKind, bytes: [][]byte{value}}
}

// SetBytesList stores a bytes list feature. An empty list is valid and
// encodes as a present, empty BytesList.
func (e *Example) SetBytesList(key string, values [][]byte) {
	e.features[key] = &feature{kind: bytesKind, bytes: values}
}

// SetFloats stores a float list feature.
func (e *Example) SetFloats(key string, values []float32) {
	e.features[key] = &feature{kind: floatKind, floats: values}
}

// SetInts stores an int64 list feature.
func (e *Example) SetInts(key string, values []int64) {
	e.features[key] = &feature{kind: intKind, ints: values}
}

// Bytes returns the bytes list stored under key.
func (e *Example) Bytes(key string) ([][]byte, bool) {
	f, ok := e.features[key]
	if !ok || f.kind != bytesKind {
		return nil, false
	}
	return f.bytes, true
}

// Floats returns the float list stored under key.
func (e *Example) Floats(key string) ([]float32, bool) {
	f, ok := e.features[key]
	if !ok || f.kind != floatKind {
		return nil, false
	}
	return f.floats, true
}

// Ints returns the int64 list stored under key.
func (e *Example) Ints(key string) ([]int64, bool) {
	f, ok := e.features[key]
	if !ok || f.kind != intKind {
		return nil, false
	}
	return f.ints, true
}

// Len returns the number of features set on the example.
func (e *Example) Len() int { return len(e.features) }

// Marshal serializes the example to tf.train.Example wire bytes.
func (e *Example) Marshal() []byte {
	keys := make([]string, 0, len(e.features))
	for k := range e.features {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var features []byte
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, mapKeyField, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = appendMessage(entry, mapValueField, encodeFeature(e.features[k]))
		features = appendMessage(features, featuresMapField, entry)
	}
	return appendMessage(nil, exampleFeaturesField, features)
}

func encodeFeature(f *feature) []byte {
	var list []byte
	switch f.kind {
	case bytesKind:
		for _, b := range f.bytes {
			list = protowire.AppendTag(list, listValueField, protowire.BytesType)
			list = protowire.AppendBytes(list, b)
		}
		return appendMessage(nil, bytesListField, list)
	case floatKind:
		if len(f.floats) > 0 {
			var packed []byte
			for _, v := range f.floats {
				packed = protowire.AppendFixed32(packed, math.Float32bits(v))
			}
			list = protowire.AppendTag(list, listValueField, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
		return appendMessage(nil, floatListField, list)
	case intKind:
		if len(f.ints) > 0 {
			var packed []byte
			for _, v := range f.ints {
				packed = protowire.AppendVarint(packed, uint64(v))
			}
			list = protowire.AppendTag(list, listValueField, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
		return appendMessage(nil, int64ListField, list)
	}
	return nil
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}
