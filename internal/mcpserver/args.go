package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parseIntArg extracts an integer argument from an MCP arguments map.
// MCP sends numbers as float64, so this handles the conversion.
// Returns defaultVal if the argument is missing or invalid.
func parseIntArg(argsMap map[string]interface{}, key string, defaultVal int) int {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}

	// MCP sends numbers as float64
	if f, ok := val.(float64); ok {
		return int(f)
	}

	return defaultVal
}

// parseBoolArg extracts a boolean argument from an MCP arguments map.
// Returns defaultVal if the argument is missing or invalid.
func parseBoolArg(argsMap map[string]interface{}, key string, defaultVal bool) bool {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}

	if b, ok := val.(bool); ok {
		return b
	}

	return defaultVal
}

// parseClampedInt extracts an integer argument and clamps it to [min, max].
// Returns defaultVal if the argument is missing or invalid.
func parseClampedInt(argsMap map[string]interface{}, key string, defaultVal, min, max int) int {
	val := parseIntArg(argsMap, key, defaultVal)
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// parseEntityID extracts the required id argument as an entity id.
// MCP sends numbers as float64; ids must fit a positive uint32.
func parseEntityID(argsMap map[string]interface{}) (uint32, error) {
	val, ok := argsMap["id"]
	if !ok {
		return 0, fmt.Errorf("id parameter is required")
	}

	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("id must be a number")
	}

	if f < 1 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, fmt.Errorf("id must be a positive entity id")
	}

	return uint32(f), nil
}

// loadModelArg resolves the required model argument and loads the model
// through the cache. A non-nil result is the tool error to return.
func loadModelArg(ctx context.Context, cache *ModelCache, argsMap map[string]interface{}) (*LoadedModel, *mcp.CallToolResult) {
	path, err := parseStringArg(argsMap, "model", true)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	lm, err := cache.Get(ctx, path)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to load model %s: %v", path, err))
	}
	return lm, nil
}

// toolJSON marshals a response and wraps it as a text result (mcp-go
// convention).
func toolJSON(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
