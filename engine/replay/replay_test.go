package replay

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []Command{
	{Tick: 0, Op: OpPlace, Kind: "headquarters", Row: 3, Col: 3},
	{Tick: 120, Op: OpPlace, Kind: "wall", Row: 1, Col: 5},
	{Tick: 121, Op: OpDestroy, Row: 1, Col: 5},
}

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.replay")
	rec, err := NewRecorder(path)
	require.NoError(t, err)
	for _, c := range sample {
		require.NoError(t, rec.Record(c))
	}
	require.NoError(t, rec.Close())
	assert.Equal(t, sample, rec.Commands)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	for _, c := range sample[:2] {
		require.NoError(t, (&c).Encode(&buf))
	}
	data := buf.Bytes()[:buf.Len()-3]

	got, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, sample[:1], got)
}

func TestReadEmpty(t *testing.T) {
	got, err := Read(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodeRejectsLongKind(t *testing.T) {
	c := Command{Op: OpPlace, Kind: string(make([]byte, 300))}
	assert.Error(t, c.Encode(io.Discard))
}

func TestScheduleDue(t *testing.T) {
	s := NewSchedule([]Command{sample[2], sample[0], sample[1]})
	assert.Equal(t, 3, s.Remaining())

	assert.Equal(t, sample[:1], s.Due(0))
	assert.Empty(t, s.Due(1))
	// Skipped ticks are caught up
	assert.Equal(t, sample[1:], s.Due(500))
	assert.Equal(t, 0, s.Remaining())
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "place", OpPlace.String())
	assert.Equal(t, "destroy", OpDestroy.String())
	assert.Equal(t, "op(9)", Op(9).String())
}
