package speech

import "time"

const (
	// Silero and the recogniser both expect 16 kHz mono.
	targetSampleRate = 16000
	framesPerBuffer  = 512 * 9

	defaultMinMicVolume   = 450
	defaultSilenceDelay   = time.Second
	defaultMaxSegment     = 25 * time.Second
	defaultListenTimeout  = 10 * time.Second
	defaultLanguage       = "en-US"
	defaultRecogniserURL  = "http://www.google.com/speech-api/v2/recognize"
	defaultVoiceThreshold = 0.5
)

type Config struct {
	APIKey          string
	SileroModelPath string
	Language        string
	RecogniserURL   string
	// DumpDir, when set, receives a WAV copy of every detected utterance.
	DumpDir string

	MinMicVolume  float64
	SilenceDelay  time.Duration
	MaxSegment    time.Duration
	ListenTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if c.RecogniserURL == "" {
		c.RecogniserURL = defaultRecogniserURL
	}
	if c.MinMicVolume == 0 {
		c.MinMicVolume = defaultMinMicVolume
	}
	if c.SilenceDelay == 0 {
		c.SilenceDelay = defaultSilenceDelay
	}
	if c.MaxSegment == 0 {
		c.MaxSegment = defaultMaxSegment
	}
	if c.ListenTimeout == 0 {
		c.ListenTimeout = defaultListenTimeout
	}
	return c
}
