package core

import "encoding/json"

type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type ToolResult struct {
	Tool    string `json:"tool"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

func NewToolResult(tool, content string) ToolResult {
	return ToolResult{Tool: tool, Content: content}
}

func NewToolError(tool, errMsg string) ToolResult {
	return ToolResult{Tool: tool, Content: errMsg, IsError: true}
}
