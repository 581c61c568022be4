//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package openai provides a model.Client implementation backed by the
// OpenAI chat completions API. It also works against OpenAI-compatible
// endpoints via WithBaseURL.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/trpc-conversation-go/log"
	"trpc.group/trpc-go/trpc-conversation-go/model"
	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// Model is an OpenAI-backed model client.
type Model struct {
	client openai.Client
	name   string

	genConfig model.GenerationConfig
}

// Option configures the model.
type Option func(*options)

type options struct {
	apiKey        string
	baseURL       string
	genConfig     model.GenerationConfig
	openaiOptions []openaiopt.RequestOption
}

// WithAPIKey sets the API key. The OPENAI_API_KEY environment variable is
// used when unset, per the SDK's defaults.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithGenerationConfig sets default generation parameters for every
// request that does not carry its own.
func WithGenerationConfig(cfg model.GenerationConfig) Option {
	return func(o *options) {
		o.genConfig = cfg
	}
}

// WithOpenAIOptions passes extra request options to the underlying SDK
// client.
func WithOpenAIOptions(opts ...openaiopt.RequestOption) Option {
	return func(o *options) {
		o.openaiOptions = append(o.openaiOptions, opts...)
	}
}

// New creates an OpenAI-like model client for the named model.
func New(name string, opts ...Option) *Model {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	var clientOpts []openaiopt.RequestOption
	if o.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.apiKey))
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.baseURL))
	}
	clientOpts = append(clientOpts, o.openaiOptions...)
	return &Model{
		client:    openai.NewClient(clientOpts...),
		name:      name,
		genConfig: o.genConfig,
	}
}

// Info implements the model.Client interface.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// Complete implements the model.Client interface.
func (m *Model) Complete(ctx context.Context, request *model.Request) (*model.Response, error) {
	if request == nil {
		return nil, errors.New("request cannot be nil")
	}
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: m.convertMessages(request.Messages),
		Tools:    m.convertTools(request.Tools),
	}
	m.applyGenerationConfig(&chatRequest, request)

	chatCompletion, err := m.client.Chat.Completions.New(ctx, chatRequest)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyError(err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, &model.TransportError{
			Message:   "response contains no choices",
			Retryable: true,
		}
	}
	return m.convertResponse(chatCompletion), nil
}

func (m *Model) applyGenerationConfig(chatRequest *openai.ChatCompletionNewParams, request *model.Request) {
	maxTokens := request.MaxTokens
	if maxTokens == nil {
		maxTokens = m.genConfig.MaxTokens
	}
	if maxTokens != nil {
		chatRequest.MaxCompletionTokens = openai.Int(int64(*maxTokens))
	}
	temperature := request.Temperature
	if temperature == nil {
		temperature = m.genConfig.Temperature
	}
	if temperature != nil {
		chatRequest.Temperature = openai.Float(*temperature)
	}
}

// convertMessages converts our Message format to OpenAI's format.
func (m *Model) convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		case model.RoleAssistant:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content:   convertAssistantContent(msg),
					ToolCalls: convertToolCalls(msg.ToolCalls),
				},
			}
		case model.RoleTool:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
					ToolCallID: msg.ToolCallID,
				},
			}
		default: // User and unknown roles project as user messages.
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: convertUserContent(msg),
				},
			}
		}
	}
	return result
}

func convertAssistantContent(msg model.Message) openai.ChatCompletionAssistantMessageParamContentUnion {
	return openai.ChatCompletionAssistantMessageParamContentUnion{
		OfString: openai.String(msg.Content),
	}
}

func convertUserContent(msg model.Message) openai.ChatCompletionUserMessageParamContentUnion {
	if len(msg.ContentParts) == 0 {
		return openai.ChatCompletionUserMessageParamContentUnion{
			OfString: openai.String(msg.Content),
		}
	}
	var parts []openai.ChatCompletionContentPartUnionParam
	if msg.Content != "" {
		parts = append(parts, openai.ChatCompletionContentPartUnionParam{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: msg.Content},
		})
	}
	for _, part := range msg.ContentParts {
		switch part.Type {
		case model.ContentTypeText:
			parts = append(parts, openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{Text: part.Text},
			})
		case model.ContentTypeImage:
			parts = append(parts, openai.ChatCompletionContentPartUnionParam{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						URL: part.ImageURL,
					},
				},
			})
		}
	}
	return openai.ChatCompletionUserMessageParamContentUnion{
		OfArrayOfContentParts: parts,
	}
}

func convertToolCalls(toolCalls []model.ToolCall) []openai.ChatCompletionMessageToolCallParam {
	if len(toolCalls) == 0 {
		return nil
	}
	result := make([]openai.ChatCompletionMessageToolCallParam, len(toolCalls))
	for i, tc := range toolCalls {
		result[i] = openai.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: string(tc.Arguments),
			},
		}
	}
	return result
}

func (m *Model) convertTools(tools []*tool.Declaration) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, declaration := range tools {
		// Convert the InputSchema through JSON to map to OpenAI's
		// expected format.
		schemaBytes, err := json.Marshal(declaration.InputSchema)
		if err != nil {
			log.Errorf("failed to marshal tool schema for %s: %v", declaration.Name, err)
			continue
		}
		var parameters shared.FunctionParameters
		if err := json.Unmarshal(schemaBytes, &parameters); err != nil {
			log.Errorf("failed to unmarshal tool schema for %s: %v", declaration.Name, err)
			continue
		}
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        declaration.Name,
				Description: openai.String(declaration.Description),
				Parameters:  parameters,
			},
		})
	}
	return result
}

func (m *Model) convertResponse(chatCompletion *openai.ChatCompletion) *model.Response {
	choice := chatCompletion.Choices[0]
	response := &model.Response{
		ID:        chatCompletion.ID,
		Model:     chatCompletion.Model,
		Created:   chatCompletion.Created,
		Content:   choice.Message.Content,
		Refusal:   choice.Message.Refusal,
		Timestamp: time.Now(),
	}
	for j, toolCall := range chatCompletion.Choices[0].Message.ToolCalls {
		id := toolCall.ID
		if id == "" {
			// Synthesize an id for providers that omit it.
			id = fmt.Sprintf("auto_call_%d", j)
		}
		response.ToolCalls = append(response.ToolCalls, model.ToolCall{
			ID:        id,
			Name:      toolCall.Function.Name,
			Arguments: json.RawMessage(toolCall.Function.Arguments),
		})
	}
	if chatCompletion.Usage.PromptTokens > 0 || chatCompletion.Usage.CompletionTokens > 0 {
		response.Usage = &model.Usage{
			PromptTokens:     int(chatCompletion.Usage.PromptTokens),
			CompletionTokens: int(chatCompletion.Usage.CompletionTokens),
			TotalTokens:      int(chatCompletion.Usage.TotalTokens),
		}
	}
	return response
}

// classifyError maps SDK failures to transport errors, marking the
// transient ones retryable so the step engine backs off and retries.
func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &model.TransportError{
			Message:   apiErr.Error(),
			Retryable: retryableStatus(apiErr.StatusCode),
			Status:    apiErr.StatusCode,
			Err:       err,
		}
	}
	// Connection-level failures have no status; assume transient.
	return &model.TransportError{
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusConflict, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}
