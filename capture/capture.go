// Package capture records rendered ANSI frames with their timestamps into a
// zstd compressed stream and plays them back.
package capture

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	magic   = "TSDF"
	version = 1
	// headerSize is index, elapsed, cols, rows and payload size.
	headerSize = 8 + 8 + 2 + 2 + 4
	// maxPayload guards against corrupt size fields.
	maxPayload = 64 << 20
)

// ErrFormat is returned for streams that are not frame recordings.
var ErrFormat = errors.New("not a frame recording")

// Frame is one recorded terminal frame.
type Frame struct {
	Index uint64
	// Elapsed is the time since the recording started.
	Elapsed    time.Duration
	Cols, Rows int
	// Data is the ANSI encoded frame.
	Data []byte
}

// Recorder appends frames to a compressed stream. Close must be called to flush it.
type Recorder struct {
	enc   *zstd.Encoder
	start time.Time
	now   func() time.Time
	next  uint64
	hdr   [headerSize]byte
}

// NewRecorder writes the stream header to w and returns a recorder.
// clock may be nil to use [time.Now].
func NewRecorder(w io.Writer, clock func() time.Time) (*Recorder, error) {
	if clock == nil {
		clock = time.Now
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	var hdr [len(magic) + 1]byte
	copy(hdr[:], magic)
	hdr[len(magic)] = version
	if _, err := enc.Write(hdr[:]); err != nil {
		enc.Close()
		return nil, err
	}
	return &Recorder{enc: enc, start: clock(), now: clock}, nil
}

// Record appends an ANSI frame of cols by rows cells.
func (r *Recorder) Record(data []byte, cols, rows int) error {
	if cols < 0 || rows < 0 || cols > 0xffff || rows > 0xffff {
		return fmt.Errorf("frame size %dx%d out of range", cols, rows)
	} else if len(data) > maxPayload {
		return fmt.Errorf("frame of %d bytes exceeds %d", len(data), maxPayload)
	}
	h := r.hdr[:]
	binary.LittleEndian.PutUint64(h[0:8], r.next)
	binary.LittleEndian.PutUint64(h[8:16], uint64(r.now().Sub(r.start)))
	binary.LittleEndian.PutUint16(h[16:18], uint16(cols))
	binary.LittleEndian.PutUint16(h[18:20], uint16(rows))
	binary.LittleEndian.PutUint32(h[20:24], uint32(len(data)))
	if _, err := r.enc.Write(h); err != nil {
		return err
	}
	if _, err := r.enc.Write(data); err != nil {
		return err
	}
	r.next++
	return nil
}

// Frames returns the number of frames recorded.
func (r *Recorder) Frames() uint64 { return r.next }

// Close flushes the stream. It does not close the underlying writer.
func (r *Recorder) Close() error { return r.enc.Close() }

// Player reads frames from a recording.
type Player struct {
	dec *zstd.Decoder
	br  *bufio.Reader
	hdr [headerSize]byte
}

// NewPlayer checks the stream header of r and returns a player.
func NewPlayer(r io.Reader) (*Player, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	p := &Player{dec: dec, br: bufio.NewReader(dec)}
	var hdr [len(magic) + 1]byte
	if _, err := io.ReadFull(p.br, hdr[:]); err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if string(hdr[:len(magic)]) != magic || hdr[len(magic)] != version {
		dec.Close()
		return nil, fmt.Errorf("%w: bad header %q", ErrFormat, hdr[:])
	}
	return p, nil
}

// Next returns the next frame. It returns io.EOF after the last frame.
func (p *Player) Next() (Frame, error) {
	_, err := io.ReadFull(p.br, p.hdr[:])
	if err == io.EOF {
		return Frame{}, io.EOF
	} else if err != nil {
		return Frame{}, fmt.Errorf("%w: truncated frame header: %w", ErrFormat, err)
	}
	h := p.hdr[:]
	f := Frame{
		Index:   binary.LittleEndian.Uint64(h[0:8]),
		Elapsed: time.Duration(binary.LittleEndian.Uint64(h[8:16])),
		Cols:    int(binary.LittleEndian.Uint16(h[16:18])),
		Rows:    int(binary.LittleEndian.Uint16(h[18:20])),
	}
	size := binary.LittleEndian.Uint32(h[20:24])
	if size > maxPayload {
		return Frame{}, fmt.Errorf("%w: frame %d payload of %d bytes", ErrFormat, f.Index, size)
	}
	f.Data = make([]byte, size)
	if _, err := io.ReadFull(p.br, f.Data); err != nil {
		return Frame{}, fmt.Errorf("%w: frame %d payload truncated: %w", ErrFormat, f.Index, err)
	}
	return f, nil
}

// Close releases the decoder.
func (p *Player) Close() { p.dec.Close() }

// Play passes every frame to draw at its recorded time scaled by 1/speed.
// It returns when the recording ends or ctx is done.
func (p *Player) Play(ctx context.Context, speed float64, draw func(Frame) error) error {
	if !(speed > 0) {
		speed = 1
	}
	start := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C
	for {
		f, err := p.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		due := time.Duration(float64(f.Elapsed) / speed)
		if wait := due - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := draw(f); err != nil {
			return err
		}
	}
}
