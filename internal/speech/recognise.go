package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type Result struct {
	Alternative []Alternative `json:"alternative"`
	Final       bool          `json:"final"`
}

type Response struct {
	Result []Result `json:"result"`
}

// recogniser posts FLAC audio to the Google speech endpoint.
type recogniser struct {
	apiURL   string
	apiKey   string
	language string
	http     *http.Client
}

func newRecogniser(cfg Config) *recogniser {
	return &recogniser{
		apiURL:   cfg.RecogniserURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		http:     &http.Client{},
	}
}

// recognise returns the most confident transcript for flacData.
func (r *recogniser) recognise(ctx context.Context, flacData []byte) (string, float64, error) {
	data := url.Values{}
	data.Set("client", "chromium")
	data.Set("lang", r.language)
	data.Set("key", r.apiKey)
	data.Set("pFilter", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+"?"+data.Encode(), bytes.NewReader(flacData))
	if err != nil {
		return "", 0, fmt.Errorf("create recogniser request: %w", err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/x-flac; rate=%d", targetSampleRate))

	resp, err := r.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("send recogniser request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read recogniser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("recogniser returned %s", resp.Status)
	}

	result, err := convertToResult(string(body))
	if err != nil {
		return "", 0, err
	}
	best, err := findBestHypothesis(result.Alternative)
	if err != nil {
		return "", 0, err
	}
	return best.Transcript, best.Confidence, nil
}

// convertToResult returns the first non-empty result. The endpoint answers
// with one JSON document per line, the first usually being empty.
func convertToResult(responseText string) (Result, error) {
	for _, line := range strings.Split(responseText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var response Response
		if err := json.Unmarshal([]byte(line), &response); err != nil {
			return Result{}, fmt.Errorf("decode recogniser response: %w", err)
		}
		if len(response.Result) != 0 {
			if len(response.Result[0].Alternative) == 0 {
				return Result{}, errors.New("no alternatives found")
			}
			return response.Result[0], nil
		}
	}
	return Result{}, ErrNoSpeech
}

func findBestHypothesis(alternatives []Alternative) (Alternative, error) {
	if len(alternatives) == 0 {
		return Alternative{}, errors.New("no alternatives provided")
	}

	var bestHypothesis Alternative
	highestConfidence := -1.0
	for _, alternative := range alternatives {
		if alternative.Confidence > highestConfidence {
			highestConfidence = alternative.Confidence
			bestHypothesis = alternative
		}
	}

	if bestHypothesis.Transcript == "" {
		return Alternative{}, errors.New("best hypothesis does not have a transcript")
	}
	// only the first alternative carries a confidence
	if bestHypothesis.Confidence == 0 {
		bestHypothesis.Confidence = 0.5
	}
	return bestHypothesis, nil
}
