package tool

import (
	"context"
	"fmt"
)

// FinishName is the sentinel tool chain mode requires the model to call in
// order to end the conversation.
const FinishName = "finish_run"

// Finish returns the synthetic chain-completion tool. Its result is the final
// textual output of the run, passed through bare rather than folded into a
// tool-execution block.
func Finish() Tool {
	return Tool{
		Name:        FinishName,
		Description: "Call this tool when the task is fully complete. Its final_response becomes the final answer returned to the user.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"final_response": map[string]interface{}{
					"type":        "string",
					"description": "The complete final answer for the user.",
				},
			},
			"required": []string{"final_response"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			response, ok := args["final_response"].(string)
			if !ok {
				return nil, fmt.Errorf("final_response must be a string")
			}
			return response, nil
		},
	}
}
