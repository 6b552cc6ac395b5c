// ABOUTME: Multi-codec audio file decoder
// ABOUTME: Decodes MP3, Ogg Vorbis, Ogg Opus, WAV, and FLAC into PCM buffers
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	opus "gopkg.in/hraban/opus.v2"
)

// DecodeFile decodes an entire audio file into an interleaved int16 buffer.
// The codec is chosen by file extension; Ogg containers are tried as Vorbis
// first and Opus second.
func DecodeFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".mp3":
		return DecodeMP3(f)
	case ".ogg", ".oga", ".opus":
		buf, vorbisErr := DecodeVorbis(f)
		if vorbisErr == nil {
			return buf, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind ogg file: %w", err)
		}
		buf, opusErr := DecodeOpus(f)
		if opusErr != nil {
			return nil, fmt.Errorf("ogg decode failed (vorbis: %v): %w", vorbisErr, opusErr)
		}
		return buf, nil
	case ".wav", ".wave":
		return DecodeWAV(f)
	case ".flac":
		return DecodeFLAC(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}
}

// DecodeMP3 decodes an MP3 stream. The decoder always outputs 16-bit
// stereo at the stream's sample rate.
func DecodeMP3(r io.Reader) (*Buffer, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to read MP3 stream: %w", err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return &Buffer{
		Format:  Format{SampleRate: decoder.SampleRate(), Channels: 2},
		Samples: samples,
	}, nil
}

// DecodeVorbis decodes an Ogg Vorbis stream.
func DecodeVorbis(r io.Reader) (*Buffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}

	samples := make([]int16, len(data))
	for i, s := range data {
		samples[i] = float32ToInt16(s)
	}

	return &Buffer{
		Format:  Format{SampleRate: format.SampleRate, Channels: format.Channels},
		Samples: samples,
	}, nil
}

// DecodeOpus decodes an Ogg Opus stream. Opus always decodes at 48kHz;
// ReadStereo downmixes or upmixes to two channels.
func DecodeOpus(r io.Reader) (*Buffer, error) {
	stream, err := opus.NewStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Opus stream: %w", err)
	}
	defer stream.Close()

	var samples []int16
	pcm := make([]int16, 16384)
	for {
		n, err := stream.ReadStereo(pcm)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		if n == 0 {
			break
		}
		samples = append(samples, pcm[:n*2]...)
	}

	return &Buffer{
		Format:  Format{SampleRate: 48000, Channels: 2},
		Samples: samples,
	}, nil
}

// DecodeWAV decodes a RIFF/WAVE stream.
func DecodeWAV(rs io.ReadSeeker) (*Buffer, error) {
	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	intBuf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	samples := make([]int16, len(intBuf.Data))
	for i, s := range intBuf.Data {
		samples[i] = scaleToInt16(s, bitDepth)
	}

	return &Buffer{
		Format: Format{
			SampleRate: intBuf.Format.SampleRate,
			Channels:   intBuf.Format.NumChannels,
		},
		Samples: samples,
	}, nil
}

// DecodeFLAC decodes a FLAC stream frame by frame.
func DecodeFLAC(r io.Reader) (*Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	var samples []int16
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("FLAC frame parse failed: %w", err)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, scaleToInt16(int(frame.Subframes[ch].Samples[i]), bitDepth))
			}
		}
	}

	return &Buffer{
		Format:  Format{SampleRate: int(info.SampleRate), Channels: channels},
		Samples: samples,
	}, nil
}

// float32ToInt16 converts a [-1, 1] float sample to int16 with clamping.
func float32ToInt16(s float32) int16 {
	scaled := s * 32767
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// scaleToInt16 scales a sample of the given bit depth into int16 range.
func scaleToInt16(s, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(s)
	case bitDepth > 16:
		return int16(s >> (bitDepth - 16))
	default:
		return int16(s << (16 - bitDepth))
	}
}
