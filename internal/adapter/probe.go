package adapter

import (
	"context"
	"time"

	"github.com/pagegen/pagegen/internal/provider"
	"github.com/pagegen/pagegen/internal/settings"
)

// probePrompt is the minimal request used to verify a model answers.
const probePrompt = "Reply with the single word: ok"

// DefaultProbeDelay spaces sequential probes so a sweep does not trip
// provider rate limits.
const DefaultProbeDelay = 1500 * time.Millisecond

// ProbeResult is the outcome of testing one model.
type ProbeResult struct {
	Provider provider.ID
	Model    string
	OK       bool
	Latency  time.Duration
	Err      error
}

// ProbeModel sends a minimal chat request to one model and reports
// whether it answered. The user's settings supply mode and credentials;
// the model under test overrides the configured one.
func (t *Transport) ProbeModel(ctx context.Context, model string, st settings.Settings, env provider.Env) ProbeResult {
	st.Model = model
	if p, ok := provider.ForModel(model); ok {
		st.Provider = p.ID
	}

	result := ProbeResult{Provider: st.Provider, Model: model}

	req, rc, err := BuildWithEnv(probePrompt, st, AIConfig{}, env)
	if err != nil {
		result.Err = err
		return result
	}

	start := time.Now()
	raw, err := t.SendChat(ctx, req, rc)
	result.Latency = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}
	if _, err := InterpretChat(raw, req.Model); err != nil {
		result.Err = err
		return result
	}
	result.OK = true
	return result
}

// Sweep probes each model in order, spacing calls by delay and reporting
// each result as it lands. A failed probe does not stop the sweep.
func (t *Transport) Sweep(ctx context.Context, models []string, st settings.Settings, env provider.Env, delay time.Duration, report func(ProbeResult)) []ProbeResult {
	if delay <= 0 {
		delay = DefaultProbeDelay
	}

	results := make([]ProbeResult, 0, len(models))
	for i, model := range models {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(delay):
			}
		}
		res := t.ProbeModel(ctx, model, st, env)
		results = append(results, res)
		if report != nil {
			report(res)
		}
	}
	return results
}
