// Copyright 2026 Doctrail Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persistent record types. Times travel as Unix
// microseconds. Slices are length-prefixed with varint lengths.

// ErrNegativeLength indicates a corrupted length prefix.
var ErrNegativeLength = errors.New("negative length")

var (
	IDMUS               = idMUS{}
	FieldMUS            = fieldMUS{}
	UploadedFileMUS     = uploadedFileMUS{}
	UploadedRowMUS      = uploadedRowMUS{}
	DocumentAnalysisMUS = documentAnalysisMUS{}
	EventMUS            = eventMUS{}
)

var (
	_ mus.Serializer[ID]               = IDMUS
	_ mus.Serializer[Field]            = FieldMUS
	_ mus.Serializer[UploadedFile]     = UploadedFileMUS
	_ mus.Serializer[UploadedRow]      = UploadedRowMUS
	_ mus.Serializer[DocumentAnalysis] = DocumentAnalysisMUS
	_ mus.Serializer[Event]            = EventMUS
)

// idMUS serializes an ID as a varint uint64.
type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// timeMUS serializes a time.Time as Unix microseconds (UTC).
type timeMUS struct{}

var timeSer = timeMUS{}

func (s timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func (s timeMUS) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func (s timeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

// fieldMUS serializes one name/value pair.
type fieldMUS struct{}

func (s fieldMUS) Marshal(v Field, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.Value, bs[n:])
	return
}

func (s fieldMUS) Unmarshal(bs []byte) (v Field, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Value, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s fieldMUS) Size(v Field) (size int) {
	return ord.String.Size(v.Name) + ord.String.Size(v.Value)
}

func (s fieldMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

// Slice helpers shared by the struct serializers.

func marshalFields(v []Field, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for i := range v {
		n += FieldMUS.Marshal(v[i], bs[n:])
	}
	return
}

func unmarshalFields(bs []byte) (v []Field, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	if length == 0 {
		return
	}
	v = make([]Field, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = FieldMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeFields(v []Field) (size int) {
	size = varint.Int.Size(len(v))
	for i := range v {
		size += FieldMUS.Size(v[i])
	}
	return
}

func skipFields(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = FieldMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func marshalStrings(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for i := range v {
		n += ord.String.Marshal(v[i], bs[n:])
	}
	return
}

func unmarshalStrings(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	if length == 0 {
		return
	}
	v = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeStrings(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for i := range v {
		size += ord.String.Size(v[i])
	}
	return
}

func skipStrings(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}
	var n1 int
	for i := 0; i < length; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type uploadedFileMUS struct{}

func (s uploadedFileMUS) Marshal(v UploadedFile, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.OriginalFilename, bs[n:])
	n += ord.String.Marshal(v.StorageKey, bs[n:])
	n += ord.String.Marshal(v.UploadedBy, bs[n:])
	n += ord.String.Marshal(v.ParamA, bs[n:])
	n += ord.String.Marshal(v.ParamB, bs[n:])
	n += varint.Int.Marshal(int(v.Outcome), bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += timeSer.Marshal(v.UploadedAt, bs[n:])
	n += timeSer.Marshal(v.InsertedAt, bs[n:])
	return
}

func (s uploadedFileMUS) Unmarshal(bs []byte) (v UploadedFile, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if v.OriginalFilename, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.StorageKey, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.UploadedBy, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.ParamA, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.ParamB, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	var outcome int
	if outcome, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Outcome = ValidationOutcome(outcome)
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.UploadedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (s uploadedFileMUS) Size(v UploadedFile) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.OriginalFilename)
	size += ord.String.Size(v.StorageKey)
	size += ord.String.Size(v.UploadedBy)
	size += ord.String.Size(v.ParamA)
	size += ord.String.Size(v.ParamB)
	size += varint.Int.Size(int(v.Outcome))
	size += ord.String.Size(v.Summary)
	size += timeSer.Size(v.UploadedAt)
	size += timeSer.Size(v.InsertedAt)
	return
}

func (s uploadedFileMUS) Skip(bs []byte) (n int, err error) {
	skippers := []func([]byte) (int, error){
		IDMUS.Skip,
		ord.String.Skip,
		ord.String.Skip,
		ord.String.Skip,
		ord.String.Skip,
		ord.String.Skip,
		varint.Int.Skip,
		ord.String.Skip,
		timeSer.Skip,
		timeSer.Skip,
	}
	var n1 int
	for _, skip := range skippers {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type uploadedRowMUS struct{}

func (s uploadedRowMUS) Marshal(v UploadedRow, bs []byte) (n int) {
	n = IDMUS.Marshal(v.FileId, bs)
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += marshalFields(v.Values, bs[n:])
	n += marshalStrings(v.Violations, bs[n:])
	return
}

func (s uploadedRowMUS) Unmarshal(bs []byte) (v UploadedRow, n int, err error) {
	var n1 int
	v.FileId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if v.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.Values, n1, err = unmarshalFields(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Violations, n1, err = unmarshalStrings(bs[n:])
	n += n1
	return
}

func (s uploadedRowMUS) Size(v UploadedRow) (size int) {
	size = IDMUS.Size(v.FileId)
	size += varint.Int.Size(v.Index)
	size += sizeFields(v.Values)
	size += sizeStrings(v.Violations)
	return
}

func (s uploadedRowMUS) Skip(bs []byte) (n int, err error) {
	skippers := []func([]byte) (int, error){
		IDMUS.Skip,
		varint.Int.Skip,
		skipFields,
		skipStrings,
	}
	var n1 int
	for _, skip := range skippers {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type documentAnalysisMUS struct{}

func (s documentAnalysisMUS) Marshal(v DocumentAnalysis, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Filename, bs[n:])
	n += ord.String.Marshal(v.StorageKey, bs[n:])
	n += varint.Int.Marshal(int(v.Classification), bs[n:])
	n += marshalFields(v.Fields, bs[n:])
	n += marshalStrings(v.TextBlocks, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += varint.Int.Marshal(int(v.Sentiment), bs[n:])
	n += varint.Float32.Marshal(v.SentimentScore, bs[n:])
	n += ord.String.Marshal(v.UploadedBy, bs[n:])
	n += timeSer.Marshal(v.InsertedAt, bs[n:])
	return
}

func (s documentAnalysisMUS) Unmarshal(bs []byte) (v DocumentAnalysis, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if v.Filename, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.StorageKey, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	var class int
	if class, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Classification = Classification(class)
	if v.Fields, n1, err = unmarshalFields(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.TextBlocks, n1, err = unmarshalStrings(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	var sentiment int
	if sentiment, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Sentiment = SentimentLabel(sentiment)
	if v.SentimentScore, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.UploadedBy, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentAnalysisMUS) Size(v DocumentAnalysis) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Filename)
	size += ord.String.Size(v.StorageKey)
	size += varint.Int.Size(int(v.Classification))
	size += sizeFields(v.Fields)
	size += sizeStrings(v.TextBlocks)
	size += ord.String.Size(v.Summary)
	size += varint.Int.Size(int(v.Sentiment))
	size += varint.Float32.Size(v.SentimentScore)
	size += ord.String.Size(v.UploadedBy)
	size += timeSer.Size(v.InsertedAt)
	return
}

func (s documentAnalysisMUS) Skip(bs []byte) (n int, err error) {
	skippers := []func([]byte) (int, error){
		IDMUS.Skip,
		ord.String.Skip,
		ord.String.Skip,
		varint.Int.Skip,
		skipFields,
		skipStrings,
		ord.String.Skip,
		varint.Int.Skip,
		varint.Float32.Skip,
		ord.String.Skip,
		timeSer.Skip,
	}
	var n1 int
	for _, skip := range skippers {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type eventMUS struct{}

func (s eventMUS) Marshal(v Event, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(int(v.Type), bs[n:])
	n += ord.String.Marshal(v.Identity, bs[n:])
	n += timeSer.Marshal(v.Timestamp, bs[n:])
	n += varint.Int.Marshal(int(v.Outcome), bs[n:])
	n += IDMUS.Marshal(v.ResultId, bs[n:])
	n += ord.String.Marshal(v.Detail, bs[n:])
	return
}

func (s eventMUS) Unmarshal(bs []byte) (v Event, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var typ int
	if typ, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Type = EventType(typ)
	if v.Identity, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	if v.Timestamp, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	var outcome int
	if outcome, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Outcome = Outcome(outcome)
	if v.ResultId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		n += n1
		return
	}
	n += n1
	v.Detail, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s eventMUS) Size(v Event) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(int(v.Type))
	size += ord.String.Size(v.Identity)
	size += timeSer.Size(v.Timestamp)
	size += varint.Int.Size(int(v.Outcome))
	size += IDMUS.Size(v.ResultId)
	size += ord.String.Size(v.Detail)
	return
}

func (s eventMUS) Skip(bs []byte) (n int, err error) {
	skippers := []func([]byte) (int, error){
		IDMUS.Skip,
		varint.Int.Skip,
		ord.String.Skip,
		timeSer.Skip,
		varint.Int.Skip,
		IDMUS.Skip,
		ord.String.Skip,
	}
	var n1 int
	for _, skip := range skippers {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
