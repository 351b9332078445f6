package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/doctrail/doctrail/core"
)

// Key prefixes for different data types
const (
	uploadedFilePrefix  = "upfile"
	uploadedFileIDSeq   = "upfileseq"
	uploaderIndexPrefix = "upfileu"
	uploadedRowPrefix   = "uprow"
	documentPrefix      = "docrec"
	documentIDSeq       = "docrecseq"
	eventPrefix         = "evtrec"
	eventIDSeq          = "evtrecseq"
	eventDatePrefix     = "evtd"
)

// makeFileKey generates a key for an uploaded file by ID.
func makeFileKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", uploadedFilePrefix, id))
}

// makeUploaderKey generates a composite key for the uploader index.
// Format: prefix:identity NUL id. The NUL separator keeps one identity's
// entries from matching another identity's prefix.
func makeUploaderKey(identity string, id core.ID) []byte {
	prefix := makePartialUploaderKey(identity)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialUploaderKey generates the per-identity prefix of the
// uploader index.
func makePartialUploaderKey(identity string) []byte {
	prefix := uploaderIndexPrefix + ":"
	buf := make([]byte, len(prefix)+len(identity)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], identity)
	buf[offset] = 0x00
	return buf
}

// makeRowKey generates a composite key for an uploaded row.
// Format: prefix:fileID:index
func makeRowKey(fileID core.ID, index int) []byte {
	prefix := makePartialRowKey(fileID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makePartialRowKey generates the per-file prefix of row keys, used for
// ordered iteration and cascading deletes.
func makePartialRowKey(fileID core.ID) []byte {
	prefix := uploadedRowPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fileID))
	return buf
}

// makeDocumentKey generates a key for a document analysis by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeEventKey generates a key for an event by ID.
func makeEventKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", eventPrefix, id))
}

// makeEventDateKey generates a composite key for the event date index.
// Format: prefix:timestamp:id
func makeEventDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := eventDatePrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialEventDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialEventDateKey(timestamp time.Time) []byte {
	prefix := eventDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
