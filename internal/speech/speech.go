package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bz888/chiarella/internal/logger"
	"github.com/gordonklaus/portaudio"
)

// Recognizer records one utterance from the default microphone and returns
// its transcript.
type Recognizer struct {
	cfg         Config
	recogniser  *recogniser
	newDetector func(modelPath string) (voiceDetector, error)
	localLogger *logger.Logger
}

func NewRecognizer(cfg Config) *Recognizer {
	cfg = cfg.withDefaults()
	return &Recognizer{
		cfg:        cfg,
		recogniser: newRecogniser(cfg),
		newDetector: func(modelPath string) (voiceDetector, error) {
			return newSileroDetector(modelPath)
		},
		localLogger: logger.NewLogger("speech"),
	}
}

// Listen blocks until an utterance has been recorded and transcribed, ctx is
// done, or nothing was said within the listen timeout.
func (r *Recognizer) Listen(ctx context.Context) (string, error) {
	if err := portaudio.Initialize(); err != nil {
		return "", fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	samples, sampleRate, err := r.record(ctx)
	if err != nil {
		return "", err
	}
	return r.transcribe(ctx, samples, sampleRate)
}

func (r *Recognizer) record(ctx context.Context) ([]int16, int, error) {
	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, 0, fmt.Errorf("get default input device: %w", err)
	}
	r.localLogger.Infow("using input device", "name", device.Name, "rate", device.DefaultSampleRate)

	in := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, device.DefaultSampleRate, len(in), in)
	if err != nil {
		return nil, 0, fmt.Errorf("opening stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, 0, fmt.Errorf("starting stream: %w", err)
	}
	defer stream.Stop()

	seg := newSegmenter(r.cfg, time.Now())
	for {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			r.localLogger.Warn("reading from stream: ", err)
			continue
		}

		done, err := seg.push(in, time.Now())
		if err != nil {
			return nil, 0, err
		}
		if done {
			return seg.segment(), int(device.DefaultSampleRate), nil
		}
	}
}

// transcribe runs a recorded segment through VAD, encoding and recognition.
func (r *Recognizer) transcribe(ctx context.Context, samples []int16, sampleRate int) (string, error) {
	resampled := resampleInt16(samples, sampleRate, targetSampleRate)

	detector, err := r.newDetector(r.cfg.SileroModelPath)
	if err != nil {
		return "", err
	}
	defer detector.Destroy()

	start := time.Now()
	detected, err := detector.DetectVoice(resampled)
	if err != nil {
		return "", err
	}
	r.localLogger.Infow("voice detecting result", "took", time.Since(start), "detected", detected)
	if !detected {
		return "", ErrNoSpeech
	}

	r.dumpWAV(resampled)

	flacData, err := encodeFLAC(resampled, targetSampleRate)
	if err != nil {
		return "", fmt.Errorf("FLAC encoding: %w", err)
	}

	start = time.Now()
	transcript, confidence, err := r.recogniser.recognise(ctx, flacData)
	if err != nil {
		return "", err
	}
	r.localLogger.Infow("transcribed", "took", time.Since(start), "confidence", confidence)
	return transcript, nil
}

func (r *Recognizer) dumpWAV(samples []int16) {
	if r.cfg.DumpDir == "" {
		return
	}
	wavData, err := encodeWAV(samples, targetSampleRate)
	if err != nil {
		r.localLogger.Error("encode utterance: ", err)
		return
	}
	name := filepath.Join(r.cfg.DumpDir, fmt.Sprintf("utterance_%s.wav", time.Now().Format("20060102_150405.000")))
	if err := os.WriteFile(name, wavData, 0o644); err != nil {
		r.localLogger.Error("write utterance: ", err)
	}
}
