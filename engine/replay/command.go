// Package replay records player commands against a simulation so a run can
// be reproduced tick for tick.
package replay

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Op identifies what a command does
type Op uint8

const (
	OpPlace Op = iota + 1
	OpDestroy
)

func (o Op) String() string {
	switch o {
	case OpPlace:
		return "place"
	case OpDestroy:
		return "destroy"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Command is one deterministic change to the tower layout. It takes effect
// before any system runs on tick Tick.
type Command struct {
	Tick uint64
	Op   Op
	Kind string // tower kind, for OpPlace
	Row  int32
	Col  int32
}

// Encode writes a command in little-endian binary form
func (c *Command) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, c.Tick); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Op); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Row); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Col); err != nil {
		return err
	}
	kind := []byte(c.Kind)
	if len(kind) > 0xff {
		return fmt.Errorf("replay: kind name too long (%d bytes)", len(kind))
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(kind))); err != nil {
		return err
	}
	_, err := w.Write(kind)
	return err
}

// Decode reads a command written by Encode. A clean end of input returns
// io.EOF; a partial record returns io.ErrUnexpectedEOF.
func (c *Command) Decode(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &c.Tick); err != nil {
		return err
	}
	if err := c.decodeBody(r); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func (c *Command) decodeBody(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &c.Op); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &c.Row); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &c.Col); err != nil {
		return err
	}
	var n uint8
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	c.Kind = ""
	if n > 0 {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		c.Kind = string(buf)
	}
	return nil
}
