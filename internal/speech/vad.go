package speech

import (
	"fmt"

	sileroSpeech "github.com/streamer45/silero-vad-go/speech"
)

// voiceDetector reports whether a 16 kHz segment contains speech.
type voiceDetector interface {
	DetectVoice(samples []int16) (bool, error)
	Destroy() error
}

// sileroDetector wraps the Silero VAD, a pre-trained voice activity
// detector. See: https://github.com/snakers4/silero-vad
type sileroDetector struct {
	detector *sileroSpeech.Detector
}

func newSileroDetector(modelPath string) (*sileroDetector, error) {
	sd, err := sileroSpeech.NewDetector(sileroSpeech.DetectorConfig{
		ModelPath:            modelPath,
		SampleRate:           targetSampleRate,
		Threshold:            defaultVoiceThreshold,
		MinSilenceDurationMs: 100,
		SpeechPadMs:          30,
	})
	if err != nil {
		return nil, fmt.Errorf("creating silero detector: %w", err)
	}
	return &sileroDetector{detector: sd}, nil
}

func (s *sileroDetector) DetectVoice(samples []int16) (bool, error) {
	segments, err := s.detector.Detect(int16ToFloat32(samples))
	if err != nil {
		return false, fmt.Errorf("detect voice: %w", err)
	}
	return len(segments) > 0, nil
}

func (s *sileroDetector) Destroy() error {
	return s.detector.Destroy()
}
