package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

// Recorder appends commands to a replay file
type Recorder struct {
	Commands []Command
	file     *os.File
	writer   *bufio.Writer
}

// NewRecorder creates (or truncates) a replay file for recording
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Record writes one command
func (r *Recorder) Record(c Command) error {
	r.Commands = append(r.Commands, c)
	return c.Encode(r.writer)
}

// Close flushes and closes the replay file
func (r *Recorder) Close() error {
	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// Read decodes commands until the end of r
func Read(r io.Reader) ([]Command, error) {
	br := bufio.NewReader(r)
	var out []Command
	for {
		var c Command
		err := c.Decode(br)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("replay: command %d: %w", len(out), err)
		}
		out = append(out, c)
	}
}

// Load reads a replay file
func Load(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Schedule hands out recorded commands tick by tick
type Schedule struct {
	cmds []Command
	next int
}

// NewSchedule orders commands by tick, keeping recording order within a tick
func NewSchedule(cmds []Command) *Schedule {
	cmds = slices.Clone(cmds)
	slices.SortStableFunc(cmds, func(a, b Command) int {
		switch {
		case a.Tick < b.Tick:
			return -1
		case a.Tick > b.Tick:
			return 1
		}
		return 0
	})
	return &Schedule{cmds: cmds}
}

// Due returns the commands for tick. Commands for earlier ticks that were
// never collected are returned too.
func (s *Schedule) Due(tick uint64) []Command {
	start := s.next
	for s.next < len(s.cmds) && s.cmds[s.next].Tick <= tick {
		s.next++
	}
	return s.cmds[start:s.next]
}

// Remaining reports how many commands are still pending
func (s *Schedule) Remaining() int { return len(s.cmds) - s.next }
