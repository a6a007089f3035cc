package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/datatonic/weatherops/internal/pkg/config"
)

const (
	localModel = "gemini-2.0-flash"

	weatherInstruction = "You are a helpful weather assistant. " +
		"Use the get_weather tool to answer questions about the weather in a given location."
)

// runLocal runs the weather agent in-process against Vertex Gemini: the
// same REPL shape as remote mode, with get_weather answered locally
// instead of by a deployed engine.
func (o *Options) runLocal(ctx context.Context) error {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  config.Env(config.EnvAEProject),
		Location: config.Env(config.EnvAELocation),
	})
	if err != nil {
		return fmt.Errorf("create genai client: %w", err)
	}

	chatConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: weatherInstruction}}},
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        "get_weather",
				Description: "Returns the current weather report for a location.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"location": {
							Type:        genai.TypeString,
							Description: "City or region to report the weather for",
						},
					},
					Required: []string{"location"},
				},
			}},
		}},
	}

	chat, err := client.Chats.Create(ctx, localModel, chatConfig, nil)
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}

	sessionID := uuid.NewString()
	fmt.Fprintf(o.Out, "Started local session %s for user ID: %s\n", sessionID, o.UserID)

	return o.repl(func(input string) error {
		return o.localTurn(ctx, chat, input)
	})
}

// localTurn sends one user message and resolves any tool calls until the
// model produces a final text answer.
func (o *Options) localTurn(ctx context.Context, chat *genai.Chat, input string) error {
	resp, err := chat.SendMessage(ctx, genai.Part{Text: input})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	for {
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			break
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			fmt.Fprintf(o.Out, "Called function %s with args %v\n", call.Name, call.Args)
			parts = append(parts, genai.Part{FunctionResponse: &genai.FunctionResponse{
				Name:     call.Name,
				Response: localWeather(call.Args),
			}})
		}
		resp, err = chat.SendMessage(ctx, parts...)
		if err != nil {
			return fmt.Errorf("send tool response: %w", err)
		}
	}

	if text := resp.Text(); text != "" {
		fmt.Fprintf(o.Out, "Response: %s\n", text)
	}
	return nil
}

// localWeather answers get_weather without any backend; enough to
// exercise the agent's tool-calling path during development.
func localWeather(args map[string]any) map[string]any {
	location, _ := args["location"].(string)
	if location == "" {
		location = "the requested location"
	}
	return map[string]any{
		"status": "success",
		"report": fmt.Sprintf("It is sunny in %s with a temperature of 25 degrees Celsius.", location),
	}
}
