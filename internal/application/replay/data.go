package replay

import (
	"github.com/younwookim/tankarena/internal/application/system"
	"github.com/younwookim/tankarena/internal/domain/entity"
)

// Version is written into every recording
const Version = "1.0"

// FrameInput records the intent of a single tick
type FrameInput struct {
	F    int  `json:"f"`              // Tick number
	U    bool `json:"u,omitempty"`    // Up
	D    bool `json:"d,omitempty"`    // Down
	L    bool `json:"l,omitempty"`    // Left
	R    bool `json:"r,omitempty"`    // Right
	Fire bool `json:"fire,omitempty"` // Fire
	Bomb bool `json:"bomb,omitempty"` // Place bomb
}

// ReplayData contains all data needed to replay a level
type ReplayData struct {
	Version   string       `json:"version"`
	Seed      int64        `json:"seed"`
	Level     string       `json:"level"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}

// NewFrameInput encodes an intent for tick f
func NewFrameInput(f int, in system.Intent) FrameInput {
	return FrameInput{
		F:    f,
		U:    in.Move == entity.DirUp,
		D:    in.Move == entity.DirDown,
		L:    in.Move == entity.DirLeft,
		R:    in.Move == entity.DirRight,
		Fire: in.Fire,
		Bomb: in.Bomb,
	}
}

// Intent decodes the recorded keys
func (fi FrameInput) Intent() system.Intent {
	return system.IntentFromKeys(fi.U, fi.D, fi.L, fi.R, fi.Fire, fi.Bomb)
}
