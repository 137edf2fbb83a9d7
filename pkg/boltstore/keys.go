package boltstore

import (
	"encoding/binary"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Bucket name constants for bbolt storage.
var (
	bucketMeta     = []byte("meta")
	bucketEntities = []byte("entities")
)

// Meta key constants.
var (
	keyNextID = []byte("nextid")
)

// idToKey converts an entity ID to an 8-byte big-endian key.
// We offset by a large constant so negative IDs (Nothing=-1) sort correctly.
func idToKey(id worlddb.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(int64(id)+1<<32))
	return buf
}

// keyToID converts an 8-byte big-endian key back to an entity ID.
func keyToID(b []byte) worlddb.ID {
	v := binary.BigEndian.Uint64(b)
	return worlddb.ID(int64(v) - 1<<32)
}

// intToKey converts an int to an 8-byte big-endian value.
func intToKey(n int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf
}

// keyToInt converts an 8-byte big-endian value back to an int.
func keyToInt(b []byte) int {
	return int(binary.BigEndian.Uint64(b))
}
