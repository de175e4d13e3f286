// Package persistence stores level snapshots on disk or in a SQL database.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/younwookim/tankarena/internal/domain/entity"
)

// Codec encodes a snapshot for storage
type Codec interface {
	Name() string
	Ext() string
	Marshal(ss *entity.SaveState) ([]byte, error)
	Unmarshal(data []byte, ss *entity.SaveState) error
}

// JSONCodec is readable and is what the clipboard export uses
type JSONCodec struct {
	Indent bool
}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Ext() string { return ".json" }

func (c JSONCodec) Marshal(ss *entity.SaveState) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(ss, "", "  ")
	}
	return json.Marshal(ss)
}

func (JSONCodec) Unmarshal(data []byte, ss *entity.SaveState) error {
	return json.Unmarshal(data, ss)
}

// MsgpackCodec is the compact default for stores
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }
func (MsgpackCodec) Ext() string { return ".msgpack" }

func (MsgpackCodec) Marshal(ss *entity.SaveState) ([]byte, error) {
	return msgpack.Marshal(ss)
}

func (MsgpackCodec) Unmarshal(data []byte, ss *entity.SaveState) error {
	return msgpack.Unmarshal(data, ss)
}

// CodecByName returns the codec registered under name
func CodecByName(name string) (Codec, error) {
	switch name {
	case "json":
		return JSONCodec{}, nil
	case "msgpack", "":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown save codec %q", name)
	}
}
