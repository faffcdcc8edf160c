// Package pcm decodes and encodes little-endian interleaved PCM sample
// data for the bench harness, adapted from the byte-level decode loops
// used throughout the file-analysis layer this module was built from.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnsupportedBitDepth is returned for any bit depth other than 16, 24,
// or 32.
var ErrUnsupportedBitDepth = errors.New("pcm: unsupported bit depth")

// ErrInvalidChannelCount is returned when Format.Channels is zero.
var ErrInvalidChannelCount = errors.New("pcm: invalid channel count")

// BitDepth is a supported PCM sample width.
type BitDepth int

// Supported bit depths.
const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// MaxValue returns the normalization divisor for a bit depth, or 0 for
// an unsupported one.
func (d BitDepth) MaxValue() float64 {
	switch d {
	case Depth16:
		return 32768.0
	case Depth24:
		return 8388608.0
	case Depth32:
		return 2147483648.0
	default:
		return 0
	}
}

// BytesPerSample returns the byte width of one sample at this depth.
func (d BitDepth) BytesPerSample() int {
	return int(d) / 8
}

// Format describes the layout of an interleaved PCM buffer.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   BitDepth
}

// DecodeStereo unpacks little-endian interleaved PCM bytes into
// per-channel float64 slices in [-1,1]. Only mono and stereo layouts are
// supported; channels beyond the first two are ignored.
func DecodeStereo(data []byte, format Format) (left, right []float64, err error) {
	maxVal := format.BitDepth.MaxValue()
	if maxVal == 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, format.BitDepth)
	}

	bytesPerSample := format.BitDepth.BytesPerSample()
	frameSize := bytesPerSample * format.Channels
	if frameSize == 0 {
		return nil, nil, fmt.Errorf("%w", ErrInvalidChannelCount)
	}

	frames := len(data) / frameSize
	left = make([]float64, frames)
	right = make([]float64, frames)

	for frame := 0; frame < frames; frame++ {
		base := frame * frameSize

		l := decodeSample(data, base, format.BitDepth, maxVal)
		left[frame] = l

		if format.Channels >= 2 {
			right[frame] = decodeSample(data, base+bytesPerSample, format.BitDepth, maxVal)
		} else {
			right[frame] = l
		}
	}

	return left, right, nil
}

func decodeSample(data []byte, offset int, depth BitDepth, maxVal float64) float64 {
	switch depth {
	case Depth16:
		return float64(int16(binary.LittleEndian.Uint16(data[offset:]))) / maxVal
	case Depth24:
		raw := int32(data[offset]) | int32(data[offset+1])<<8 | int32(data[offset+2])<<16
		if raw&0x800000 != 0 {
			raw |= ^0xFFFFFF
		}

		return float64(raw) / maxVal
	case Depth32:
		return float64(int32(binary.LittleEndian.Uint32(data[offset:]))) / maxVal
	default:
		return 0
	}
}

// EncodeStereo packs per-channel float64 samples in [-1,1] into
// little-endian interleaved PCM bytes at the given bit depth.
func EncodeStereo(left, right []float64, depth BitDepth) ([]byte, error) {
	maxVal := depth.MaxValue()
	if maxVal == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}

	bytesPerSample := depth.BytesPerSample()
	frames := len(left)
	if len(right) < frames {
		frames = len(right)
	}

	out := make([]byte, frames*bytesPerSample*2)

	for frame := 0; frame < frames; frame++ {
		base := frame * bytesPerSample * 2
		encodeSample(out, base, left[frame], depth, maxVal)
		encodeSample(out, base+bytesPerSample, right[frame], depth, maxVal)
	}

	return out, nil
}

func encodeSample(out []byte, offset int, sample float64, depth BitDepth, maxVal float64) {
	clamped := sample
	if clamped > 1 {
		clamped = 1
	} else if clamped < -1 {
		clamped = -1
	}

	switch depth {
	case Depth16:
		binary.LittleEndian.PutUint16(out[offset:], uint16(int16(clamped*maxVal)))
	case Depth24:
		raw := int32(clamped * maxVal)
		out[offset] = byte(raw)
		out[offset+1] = byte(raw >> 8)
		out[offset+2] = byte(raw >> 16)
	case Depth32:
		binary.LittleEndian.PutUint32(out[offset:], uint32(int32(clamped*maxVal)))
	}
}
