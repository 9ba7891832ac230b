package speech

import (
	"errors"
	"math"
	"time"
)

var ErrNoSpeech = errors.New("no speech detected")

// segmenter collects microphone frames into one utterance: it starts at the
// first frame louder than minVolume and ends after silenceDelay of quiet or
// once maxSegment has been recorded.
type segmenter struct {
	minVolume     float64
	silenceDelay  time.Duration
	maxSegment    time.Duration
	listenTimeout time.Duration

	begun    time.Time
	started  time.Time
	lastLoud time.Time
	samples  []int16
}

func newSegmenter(cfg Config, now time.Time) *segmenter {
	return &segmenter{
		minVolume:     cfg.MinMicVolume,
		silenceDelay:  cfg.SilenceDelay,
		maxSegment:    cfg.MaxSegment,
		listenTimeout: cfg.ListenTimeout,
		begun:         now,
	}
}

// push adds one frame read at now and reports whether the utterance is
// complete. It returns ErrNoSpeech if nothing loud arrives in time.
func (s *segmenter) push(frame []int16, now time.Time) (bool, error) {
	if calculateRMS16(frame) > s.minVolume {
		if s.started.IsZero() {
			s.started = now
		}
		s.lastLoud = now
	}

	if s.started.IsZero() {
		if now.Sub(s.begun) >= s.listenTimeout {
			return false, ErrNoSpeech
		}
		return false, nil
	}

	s.samples = append(s.samples, frame...)

	if now.Sub(s.lastLoud) >= s.silenceDelay || now.Sub(s.started) >= s.maxSegment {
		return true, nil
	}
	return false, nil
}

func (s *segmenter) segment() []int16 {
	return s.samples
}

// calculateRMS16 calculates the root-mean-square of the audio buffer for int16 samples.
func calculateRMS16(buffer []int16) float64 {
	if len(buffer) == 0 {
		return 0
	}
	var sumSquares float64
	for _, sample := range buffer {
		val := float64(sample)
		sumSquares += val * val
	}
	return math.Sqrt(sumSquares / float64(len(buffer)))
}
