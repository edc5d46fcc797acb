package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubenschmidt/go-sectormatch/core"
)

// Tool is a named operation callable with JSON arguments by the HTTP API or
// an MCP client. Parameters returns the JSON schema of the arguments.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

func ToSchema(t Tool) core.ToolSchema {
	return core.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

func ToSchemas(tools []Tool) []core.ToolSchema {
	schemas := make([]core.ToolSchema, len(tools))
	for i, t := range tools {
		schemas[i] = ToSchema(t)
	}
	return schemas
}

// decodeArgs unmarshals tool arguments and normalises the named ticker field.
// A missing or blank ticker is an invalid argument.
func decodeArgs[T any](args json.RawMessage, field string, ticker func(*T) *string) (T, error) {
	var params T
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return params, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}

	p := ticker(&params)
	*p = core.NormalizeTicker(*p)
	if *p == "" {
		return params, fmt.Errorf("%w: %s is required", core.ErrInvalidArgument, field)
	}
	return params, nil
}
