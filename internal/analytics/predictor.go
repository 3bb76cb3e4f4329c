// Package analytics asks a text-generation model for scheduling advice based
// on booking history.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrMalformedResponse is returned when the model reply holds no usable JSON object.
	ErrMalformedResponse = errors.New("analytics: malformed model response")
	// ErrIncompletePrediction is returned when a prediction field is empty.
	ErrIncompletePrediction = errors.New("analytics: incomplete prediction")
)

// TextGenerator completes a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Prediction is the decoded model answer.
type Prediction struct {
	PeakHours         string `json:"peakHours"`
	PopularServices   string `json:"popularServices"`
	SuggestedSchedule string `json:"suggestedSchedule"`
}

const promptTemplate = `You are an AI assistant that analyzes barber shop booking data to predict peak hours, popular services, and suggest optimal barber schedules.

Analyze the following historical booking data:
%s

Based on this data, provide:

1.  Peak hours for the barber shop.
2.  Popular services.
3.  A suggested barber schedule to optimize resource allocation.

Answer with a JSON object with the string fields "peakHours", "popularServices" and "suggestedSchedule".`

// Predictor throttles and decodes scheduling predictions.
type Predictor struct {
	generator TextGenerator
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewPredictor wraps generator. requestsPerMinute <= 0 disables throttling.
func NewPredictor(generator TextGenerator, requestsPerMinute int, logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return &Predictor{
		generator: generator,
		limiter:   limiter,
		logger:    logger.With("component", "analytics"),
	}
}

// Predict renders the prompt around historicalBookingData and decodes the reply.
func (p *Predictor) Predict(ctx context.Context, historicalBookingData string) (Prediction, error) {
	if p == nil || p.generator == nil {
		return Prediction{}, fmt.Errorf("analytics: no text generator configured")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return Prediction{}, fmt.Errorf("analytics: waiting for rate limiter: %w", err)
	}

	started := time.Now()
	reply, err := p.generator.Generate(ctx, BuildPrompt(historicalBookingData))
	if err != nil {
		return Prediction{}, fmt.Errorf("analytics: generate: %w", err)
	}
	p.logger.DebugContext(ctx, "model replied", "duration", time.Since(started), "reply_bytes", len(reply))

	return DecodePrediction(reply)
}

// BuildPrompt embeds the booking data into the analysis prompt.
func BuildPrompt(historicalBookingData string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(historicalBookingData))
}

// DecodePrediction extracts the first JSON object of reply and checks that
// every field is present.
func DecodePrediction(reply string) (Prediction, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end < start {
		return Prediction{}, ErrMalformedResponse
	}

	var prediction Prediction
	if err := json.Unmarshal([]byte(reply[start:end+1]), &prediction); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	prediction.PeakHours = strings.TrimSpace(prediction.PeakHours)
	prediction.PopularServices = strings.TrimSpace(prediction.PopularServices)
	prediction.SuggestedSchedule = strings.TrimSpace(prediction.SuggestedSchedule)

	var missing []string
	if prediction.PeakHours == "" {
		missing = append(missing, "peakHours")
	}
	if prediction.PopularServices == "" {
		missing = append(missing, "popularServices")
	}
	if prediction.SuggestedSchedule == "" {
		missing = append(missing, "suggestedSchedule")
	}
	if len(missing) > 0 {
		return Prediction{}, fmt.Errorf("%w: missing %s", ErrIncompletePrediction, strings.Join(missing, ", "))
	}
	return prediction, nil
}
