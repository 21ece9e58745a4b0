package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/sim"
)

// AtomRecord is the persisted form of an atom. The variant is flattened into
// Kind plus its payload fields.
type AtomRecord struct {
	Pos        entity.Vec2 `msgpack:"p"`
	Vel        entity.Vec2 `msgpack:"v"`
	Radius     float64     `msgpack:"r"`
	Health     int         `msgpack:"h"`
	MaxHealth  int         `msgpack:"mh"`
	Value      int64       `msgpack:"val"`
	Fissile    bool        `msgpack:"f"`
	Age        int         `msgpack:"a"`
	Lifetime   int         `msgpack:"l"`
	Kind       string      `msgpack:"k"`
	Bonus      float64     `msgpack:"bs,omitempty"`
	Neutrons   int         `msgpack:"n,omitempty"`
	SpeedBoost float64     `msgpack:"sb,omitempty"`
	Respawns   int         `msgpack:"rs,omitempty"`
}

func NewAtomRecord(a entity.Atom) AtomRecord {
	rec := AtomRecord{
		Pos: a.Pos, Vel: a.Vel, Radius: a.Radius,
		Health: a.Health, MaxHealth: a.MaxHealth, Value: a.Value,
		Fissile: a.Fissile, Age: a.Age, Lifetime: a.Lifetime,
		Kind: a.Kind().String(),
	}
	switch v := a.Variant.(type) {
	case entity.TimeWarp:
		rec.Bonus = v.BonusSeconds
	case entity.Supernova:
		rec.Neutrons, rec.SpeedBoost = v.Neutrons, v.SpeedBoost
	case entity.BlackHole:
		rec.Respawns = v.Respawns
	}
	return rec
}

func (r AtomRecord) Atom() entity.Atom {
	a := entity.Atom{
		Pos: r.Pos, Vel: r.Vel, Radius: r.Radius,
		Health: r.Health, MaxHealth: r.MaxHealth, Value: r.Value,
		Fissile: r.Fissile, Age: r.Age, Lifetime: r.Lifetime,
	}
	switch r.Kind {
	case entity.KindTime.String():
		a.Variant = entity.TimeWarp{BonusSeconds: r.Bonus}
	case entity.KindSupernova.String():
		a.Variant = entity.Supernova{Neutrons: r.Neutrons, SpeedBoost: r.SpeedBoost}
	case entity.KindBlackHole.String():
		a.Variant = entity.BlackHole{Respawns: r.Respawns}
	default:
		a.Variant = entity.Normal{}
	}
	return a
}

// FrameRecord is one sampled frame on disk.
type FrameRecord struct {
	Tick      int                   `msgpack:"t"`
	ElapsedMs int64                 `msgpack:"e"`
	Chain     int                   `msgpack:"c"`
	MaxChain  int                   `msgpack:"mc"`
	Pending   int64                 `msgpack:"pd"`
	Banked    int64                 `msgpack:"bk"`
	Neutrons  []entity.Neutron      `msgpack:"n"`
	Atoms     []AtomRecord          `msgpack:"a"`
	Texts     []entity.FloatingText `msgpack:"x"`
}

func NewFrameRecord(f sim.Frame) FrameRecord {
	rec := FrameRecord{
		Tick:      f.Tick,
		ElapsedMs: f.Elapsed.Milliseconds(),
		Chain:     f.Progress.Chain,
		MaxChain:  f.Progress.MaxChain,
		Pending:   f.Progress.Pending,
		Banked:    f.Progress.Banked,
		Neutrons:  f.Neutrons,
		Texts:     f.Texts,
		Atoms:     make([]AtomRecord, len(f.Atoms)),
	}
	for i, a := range f.Atoms {
		rec.Atoms[i] = NewAtomRecord(a)
	}
	return rec
}

// AtomList rebuilds the atoms of the frame.
func (r FrameRecord) AtomList() []entity.Atom {
	out := make([]entity.Atom, len(r.Atoms))
	for i, a := range r.Atoms {
		out[i] = a.Atom()
	}
	return out
}

// writeFrames stores frames as consecutive msgpack values.
func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := msgpack.NewEncoder(w)
	for _, fr := range frames {
		rec := NewFrameRecord(fr)
		if err := enc.Encode(&rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadFrames reads every frame of a run. A run saved without frames yields none.
func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []FrameRecord{}, nil
		}
		return nil, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(bufio.NewReader(f))
	frames := make([]FrameRecord, 0)
	for {
		var rec FrameRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return nil, fmt.Errorf("frame %d: %w", len(frames), err)
		}
		frames = append(frames, rec)
	}
}
