package converter

import (
	"encoding/json"
	"fmt"
)

const analysisPrompt = `Analyze this REST endpoint and provide a detailed JSON structure:
%s

Include:
1. HTTP methods supported
2. Request/Response schemas
3. Path parameters
4. Query parameters
5. Headers
6. Authentication requirements

Format the response as a valid JSON object. Output only the JSON object,
without a markdown code block or commentary.`

const controllerPrompt = `Convert this REST API analysis into a Spring Boot REST controller configuration:
%s

Include:
1. Controller class structure
2. Request mappings
3. Method signatures
4. Request/Response models
5. Security requirements

Format the response as a valid YAML mapping with a top-level "endpoints"
list. Output only the YAML, without a markdown code block or commentary.`

// BuildAnalysisPrompt embeds the endpoint description into the analysis
// prompt. The description is treated as opaque text.
func BuildAnalysisPrompt(endpoint string) string {
	return fmt.Sprintf(analysisPrompt, endpoint)
}

// BuildControllerPrompt re-serializes the analysis as indented JSON and
// embeds it into the controller prompt.
func BuildControllerPrompt(analysis map[string]any) (string, error) {
	b, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	return fmt.Sprintf(controllerPrompt, string(b)), nil
}
