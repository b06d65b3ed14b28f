package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// extractJSONPayload pulls the JSON document out of a model response. The
// payload may arrive fenced in a ```json block, fenced in a bare ``` block,
// or unfenced.
func extractJSONPayload(content string) string {
	trimmed := strings.TrimSpace(content)

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		rest := trimmed[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(trimmed, "```"); idx >= 0 {
		rest := trimmed[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return trimmed
}

// parseDestinationContent decodes a destination content payload. A missing
// activities array is a hard failure; packingList and tips degrade to empty
// lists.
func parseDestinationContent(content string) (*types.DestinationContent, error) {
	jsonStr := extractJSONPayload(content)

	var raw struct {
		Activities  []types.Activity `json:"activities"`
		PackingList json.RawMessage  `json:"packingList"`
		Tips        json.RawMessage  `json:"tips"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse destination content JSON: %w", err)
	}
	if raw.Activities == nil {
		return nil, fmt.Errorf("destination content missing activities array")
	}

	return &types.DestinationContent{
		Activities:  raw.Activities,
		PackingList: coerceStringList(raw.PackingList),
		Tips:        coerceStringList(raw.Tips),
	}, nil
}

// parseActivities decodes the narrower fallback payload, which carries only an
// activities array.
func parseActivities(content string) ([]types.Activity, error) {
	jsonStr := extractJSONPayload(content)

	var raw struct {
		Activities []types.Activity `json:"activities"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse activities JSON: %w", err)
	}
	if len(raw.Activities) == 0 {
		return nil, fmt.Errorf("activities payload is empty")
	}
	return raw.Activities, nil
}

func coerceStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return []string{}
	}
	return list
}
