// Package orchestrator drives the bounded tool-calling conversation loop
// between the chat-completion gateway and the tool dispatcher.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/williamkasasa/hackathon-seaweed/internal/llm"
	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/internal/tool"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
	"github.com/williamkasasa/hackathon-seaweed/pkg/metrics"
)

// maxIterations bounds worst-case latency and cost against a model that
// keeps requesting tools. Three covers the realistic lookup-then-act
// pattern plus one margin; exhaustion is a soft failure, not a crash.
const maxIterations = 3

// fallbackContent is returned when the model never produces a tool-call-free
// message within the iteration budget.
const fallbackContent = "Sorry, I had trouble processing your request. Please try again."

const systemPrompt = `You are a helpful AI shopping assistant for Seaweed & Co. You can help users browse products, add items to their cart, and complete purchases. Be conversational and friendly.

IMPORTANT TOOLS YOU MUST USE:

1. When users ask about products or want to see the catalog, use the list_products tool.

2. When discussing a single product in detail, use show_product_details to display it beautifully with all information.

3. When users want to buy/purchase/add a product to cart (phrases like "I want to buy", "add to cart", "I'll take", "purchase"), you MUST:
   - Use the add_to_cart tool with the product_id
   - Confirm the action in your response (e.g., "I've added the Kombu Seaweed to your cart!")

4. When users want to checkout or complete their purchase, use the start_checkout tool.

Always be proactive - if a user shows interest in buying, offer to add items to their cart!`

// phase is the state of the conversation loop.
type phase int

const (
	phaseAwaitingModel phase = iota
	phaseExecutingTools
	phaseDone
	phaseExhausted
)

// Orchestrator runs chat turns. It holds no state across invocations; each
// Run is a fresh loop over the supplied history.
type Orchestrator struct {
	completer   llm.ToolCompleter
	dispatcher  *tool.Dispatcher
	logger      *logger.Logger
	model       string
	temperature float32
}

// New creates a conversation orchestrator.
func New(completer llm.ToolCompleter, dispatcher *tool.Dispatcher, chatModel string, temperature float64, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		completer:   completer,
		dispatcher:  dispatcher,
		logger:      log,
		model:       chatModel,
		temperature: float32(temperature),
	}
}

// loopState is the working state of one Run.
type loopState struct {
	history    []openai.ChatCompletionMessage
	toolCalls  []openai.ToolCall
	pending    []openai.ToolCall
	final      *openai.ChatCompletionMessage
	iterations int
}

// Run executes one orchestrated chat turn over the supplied message history.
// Gateway failures are fatal for the whole turn; per-tool failures are
// absorbed into tool results so the model can react to them.
func (o *Orchestrator) Run(ctx context.Context, messages []model.ChatMessage) (*model.AssistantReply, error) {
	st := &loopState{history: seedHistory(messages)}

	current := phaseAwaitingModel
	for {
		switch current {
		case phaseAwaitingModel:
			next, err := o.stepModel(ctx, st)
			if err != nil {
				return nil, err
			}
			current = next

		case phaseExecutingTools:
			current = o.stepTools(ctx, st)

		case phaseDone:
			metrics.ChatLoopIterations.Observe(float64(st.iterations))
			return &model.AssistantReply{
				Role:              model.RoleAssistant,
				Content:           st.final.Content,
				OriginalToolCalls: convertToolCalls(st.toolCalls),
			}, nil

		case phaseExhausted:
			metrics.ChatLoopIterations.Observe(float64(st.iterations))
			o.logger.Warn("conversation loop exhausted its iteration budget",
				zap.Int("iterations", st.iterations),
				zap.Int("tool_calls", len(st.toolCalls)),
			)
			return &model.AssistantReply{
				Role:    model.RoleAssistant,
				Content: fallbackContent,
			}, nil
		}
	}
}

// stepModel asks the gateway for the next assistant decision.
func (o *Orchestrator) stepModel(ctx context.Context, st *loopState) (phase, error) {
	if st.iterations >= maxIterations {
		return phaseExhausted, nil
	}
	st.iterations++

	o.logger.Debug("calling chat gateway",
		zap.Int("iteration", st.iterations),
		zap.Int("messages", len(st.history)),
	)

	start := time.Now()
	resp, err := o.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    st.history,
		Temperature: o.temperature,
		Tools:       tool.Definitions(),
		ToolChoice:  "auto",
	})
	if err != nil {
		metrics.RecordChatCompletion(o.model, "error", time.Since(start).Seconds(), 0, 0)
		return 0, fmt.Errorf("chat completion failed: %w", err)
	}
	metrics.RecordChatCompletion(o.model, "success", time.Since(start).Seconds(),
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("chat completion returned no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		st.final = &msg
		return phaseDone, nil
	}

	st.history = append(st.history, msg)
	st.pending = msg.ToolCalls
	st.toolCalls = append(st.toolCalls, msg.ToolCalls...)
	return phaseExecutingTools, nil
}

// stepTools executes the pending tool calls in emission order and appends
// one tool message per call.
func (o *Orchestrator) stepTools(ctx context.Context, st *loopState) phase {
	for _, call := range st.pending {
		result := o.executeCall(ctx, call)
		st.history = append(st.history, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})
	}
	st.pending = nil
	return phaseAwaitingModel
}

func (o *Orchestrator) executeCall(ctx context.Context, call openai.ToolCall) string {
	rawArgs := call.Function.Arguments
	if rawArgs != "" && !json.Valid([]byte(rawArgs)) {
		// A parse failure is a hard error for this call only.
		o.logger.Warn("malformed tool call arguments",
			zap.String("tool", call.Function.Name),
			zap.String("tool_call_id", call.ID),
		)
		return `{"error":"Invalid tool arguments"}`
	}

	o.logger.Debug("executing tool",
		zap.String("tool", call.Function.Name),
		zap.String("tool_call_id", call.ID),
	)
	return o.dispatcher.Execute(ctx, call.Function.Name, rawArgs)
}

// seedHistory prepends the system persona to the caller-supplied history.
func seedHistory(messages []model.ChatMessage) []openai.ChatCompletionMessage {
	history := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	history = append(history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range messages {
		history = append(history, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return history
}

func convertToolCalls(calls []openai.ToolCall) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]model.ToolCall, len(calls))
	for i, call := range calls {
		out[i] = model.ToolCall{
			ID:   call.ID,
			Type: string(call.Type),
			Function: model.ToolFunction{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		}
	}
	return out
}
