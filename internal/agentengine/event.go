package agentengine

// Event is one streamed response element from the engine. Raw preserves
// the exact payload for display; the typed fields cover the fragments
// this tooling extracts.
type Event struct {
	Content      *Content      `json:"content"`
	FunctionCall *FunctionCall `json:"function_call"`

	Raw []byte `json:"-"`
}

// Content is the model output carried by an event.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is a single fragment of event content.
type Part struct {
	Text         string        `json:"text"`
	FunctionCall *FunctionCall `json:"function_call"`
}

// FunctionCall is a tool invocation requested by the agent.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Texts returns the text fragments of the event's content parts, in
// order.
func (e Event) Texts() []string {
	if e.Content == nil {
		return nil
	}
	var texts []string
	for _, part := range e.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return texts
}

// FunctionCalls returns the tool invocations carried by the event, both
// top level and inside content parts.
func (e Event) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	if e.FunctionCall != nil {
		calls = append(calls, *e.FunctionCall)
	}
	if e.Content != nil {
		for _, part := range e.Content.Parts {
			if part.FunctionCall != nil {
				calls = append(calls, *part.FunctionCall)
			}
		}
	}
	return calls
}
