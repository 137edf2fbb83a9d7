package boltstore

import (
	"bytes"
	"encoding/gob"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

func init() {
	gob.Register(worlddb.Entity{})
	gob.Register(worlddb.ContainerInfo{})
	gob.Register(worlddb.WeaponInfo{})
	gob.Register(worlddb.EquipInfo{})
	gob.Register(worlddb.BookInfo{})
	gob.Register(worlddb.CharInfo{})
}

// encodeEntity serializes an Entity to bytes using gob.
func encodeEntity(e *worlddb.Entity) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeEntity deserializes bytes back into an Entity.
func decodeEntity(data []byte) (*worlddb.Entity, error) {
	var e worlddb.Entity
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
