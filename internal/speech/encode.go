package speech

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/orcaman/writerseeker"
)

const (
	bitsPerSample = 16
	flacBlockSize = 4096
)

func intBuffer(samples []int16, sampleRate int) *audio.IntBuffer {
	return &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:           int16ToInt(samples),
		SourceBitDepth: bitsPerSample,
	}
}

// encodeWAV returns a 16-bit mono PCM WAV file.
func encodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	// Emulate a file in RAM so that we don't have to create a real file.
	file := &writerseeker.WriterSeeker{}
	encoder := wav.NewEncoder(file, sampleRate, bitsPerSample, 1, 1)

	if err := encoder.Write(intBuffer(samples, sampleRate)); err != nil {
		return nil, fmt.Errorf("encoder write buffer: %w", err)
	}
	// Close finalises the WAV headers
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}

	wavData, err := io.ReadAll(file.Reader())
	if err != nil {
		return nil, fmt.Errorf("reading WAV data: %w", err)
	}
	return wavData, nil
}

// encodeFLAC returns a 16-bit mono FLAC stream of verbatim frames.
func encodeFLAC(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to encode")
	}

	pcm := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}

	streamInfo := &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     1,
		BitsPerSample: bitsPerSample,
		NSamples:      uint64(len(samples)),
		MD5sum:        md5.Sum(pcm),
	}

	buf := new(bytes.Buffer)
	enc, err := flac.NewEncoder(buf, streamInfo)
	if err != nil {
		return nil, fmt.Errorf("creating FLAC encoder: %w", err)
	}

	data := make([]int32, len(samples))
	for i, s := range samples {
		data[i] = int32(s)
	}

	for i := 0; i < len(data); i += flacBlockSize {
		end := min(i+flacBlockSize, len(data))
		block := data[i:end]
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(len(block)),
				SampleRate:        uint32(sampleRate),
				Channels:          frame.ChannelsMono,
				BitsPerSample:     bitsPerSample,
				Num:               uint64(i / flacBlockSize),
			},
			Subframes: []*frame.Subframe{
				{
					SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
					Samples:   block,
					NSamples:  len(block),
				},
			},
		}
		if err := enc.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("writing FLAC frame: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing FLAC encoder: %w", err)
	}
	return buf.Bytes(), nil
}
