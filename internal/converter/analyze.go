package converter

import (
	"context"
	"errors"
)

// ModelClient is the single operation the pipeline needs from the LLM.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// maxPromptAttempts bounds re-prompting after malformed model output.
const maxPromptAttempts = 2

// AnalyzeEndpoint asks the model to describe the endpoint and parses the
// answer as a JSON object. Returns the parsed document and the raw model
// text of the last attempt.
func AnalyzeEndpoint(ctx context.Context, client ModelClient, endpoint string) (map[string]any, string, error) {
	return completeStructured(ctx, client, BuildAnalysisPrompt(endpoint), decodeJSONObject)
}

// GenerateControllerConfig asks the model to derive a controller
// configuration from the analysis and parses the answer as YAML.
func GenerateControllerConfig(ctx context.Context, client ModelClient, analysis map[string]any) (map[string]any, string, error) {
	prompt, err := BuildControllerPrompt(analysis)
	if err != nil {
		return nil, "", err
	}
	return completeStructured(ctx, client, prompt, decodeYAMLMapping)
}

func completeStructured(ctx context.Context, client ModelClient, prompt string, decode func(string) (map[string]any, error)) (map[string]any, string, error) {
	var lastErr error
	var raw string
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		content, err := client.Complete(ctx, prompt)
		if err != nil {
			return nil, raw, err
		}
		raw = content
		doc, err := decode(content)
		if err == nil {
			return doc, raw, nil
		}
		lastErr = err
		if !errors.Is(err, ErrBadModelOutput) {
			break
		}
	}
	return nil, raw, lastErr
}
