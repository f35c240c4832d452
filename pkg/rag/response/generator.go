package response

import (
	"context"

	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/pkg/llm"
	"code-concierge-be/pkg/rag/prompt"
)

// FallbackErrorMessage replaces the answer whenever the completion call fails.
const FallbackErrorMessage = "Sorry, there was an error processing your request. Please try again."

type AnswerResult struct {
	Answer string
	Files  []prompt.FileContext
	// Failed marks a fallback answer; the cause went to the log only.
	Failed bool
}

// Generator turns retrieved knowledge plus the user's message into one completion call.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	options     []llm.Option
}

func NewGenerator(llmProvider llm.LLMProvider, logger logger.ILogger, options ...llm.Option) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
		options:     options,
	}
}

// Answer makes exactly one attempt. Errors never reach the caller.
func (g *Generator) Answer(ctx context.Context, message string, knowledge prompt.Knowledge) *AnswerResult {
	system := prompt.NewAgentBuilder(knowledge).Build()

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: message},
	}

	answer, err := g.llmProvider.Chat(ctx, history, g.options...)
	if err != nil {
		g.logger.Error("RAG", "Completion failed", map[string]interface{}{
			"error":   err.Error(),
			"message": message,
			"files":   len(knowledge.Files),
		})
		return &AnswerResult{
			Answer: FallbackErrorMessage,
			Files:  knowledge.Files,
			Failed: true,
		}
	}

	g.logger.Info("RAG", "Answer generated", map[string]interface{}{
		"files":         len(knowledge.Files),
		"prompt_length": len(system),
	})

	return &AnswerResult{
		Answer: answer,
		Files:  knowledge.Files,
	}
}
