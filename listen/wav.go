package listen

import (
	"bytes"
	"errors"
	"io"

	concatwav "github.com/moutend/go-wav"
)

const wavHeaderSize = 44

// ThresholdSilence is the mean absolute sample amplitude below which a
// window counts as silent. Tune for noisy rooms.
var ThresholdSilence = 50

// IsWavEmpty reports whether every sample in a PCM WAV file is zero.
func IsWavEmpty(data []byte) (bool, error) {
	if len(data) < wavHeaderSize {
		return false, ErrNotEnoughDataToParseWav
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return false, ErrInvalidWav
	}

	audioFormat := int(data[20]) | int(data[21])<<8
	if audioFormat != 1 {
		return false, ErrFileIsNotPCM
	}

	numChannels := int(data[22]) | int(data[23])<<8
	bitsPerSample := int(data[34]) | int(data[35])<<8
	blockSize := (bitsPerSample / 8) * numChannels

	for i := wavHeaderSize; i+blockSize <= len(data); i += blockSize {
		for j := 0; j < blockSize; j++ {
			if data[i+j] != 0 {
				return false, nil
			}
		}
	}

	return true, nil
}

// Loudness returns the mean absolute amplitude of 16-bit samples.
func Loudness(data []byte) (int, error) {
	if len(data) < wavHeaderSize {
		return 0, ErrNotEnoughDataToParseWav
	}

	s := 0
	c := 0
	for i := wavHeaderSize; i+1 < len(data); i += 2 {
		sample := int16(data[i]) | int16(data[i+1])<<8
		s += abs(int(sample))
		c++
	}
	if c == 0 {
		return 0, nil
	}
	return s / c, nil
}

// IsWavSilent reports whether the window is quieter than ThresholdSilence.
func IsWavSilent(data []byte) (bool, error) {
	t, err := Loudness(data)
	return t < ThresholdSilence, err
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// ConcatWav joins two WAV files of the same format into one.
func ConcatWav(i1, i2 []byte) ([]byte, error) {
	a := &concatwav.File{}
	b := &concatwav.File{}

	if err := concatwav.Unmarshal(i1, a); err != nil {
		return nil, err
	}
	if err := concatwav.Unmarshal(i2, b); err != nil {
		return nil, err
	}

	c, err := concatwav.New(a.SamplesPerSec(), a.BitsPerSample(), a.Channels())
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(c, a); err != nil {
		return nil, err
	}
	if _, err := io.Copy(c, b); err != nil {
		return nil, err
	}

	return concatwav.Marshal(c)
}

// WriterSeeker is an in-memory io.WriteSeeker for the wav encoder.
type WriterSeeker struct {
	buf bytes.Buffer
	pos int
}

func (ws *WriterSeeker) Write(p []byte) (n int, err error) {
	if extra := ws.pos - ws.buf.Len(); extra > 0 {
		if _, err := ws.buf.Write(make([]byte, extra)); err != nil {
			return n, err
		}
	}

	if ws.pos < ws.buf.Len() {
		n = copy(ws.buf.Bytes()[ws.pos:], p)
		p = p[n:]
	}

	if len(p) > 0 {
		var bn int
		bn, err = ws.buf.Write(p)
		n += bn
	}

	ws.pos += n
	return n, err
}

func (ws *WriterSeeker) Seek(offset int64, whence int) (int64, error) {
	newPos, offs := 0, int(offset)
	switch whence {
	case io.SeekStart:
		newPos = offs
	case io.SeekCurrent:
		newPos = ws.pos + offs
	case io.SeekEnd:
		newPos = ws.buf.Len() + offs
	}
	if newPos < 0 {
		return 0, errors.New("negative result pos")
	}
	ws.pos = newPos
	return int64(newPos), nil
}

func (ws *WriterSeeker) Bytes() []byte {
	return ws.buf.Bytes()
}
