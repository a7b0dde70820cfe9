package service

import (
	"context"
	"fmt"
	"log"

	"github.com/xiaot623/docchat/internal/adapter/llm"
	"github.com/xiaot623/docchat/internal/domain"
)

// systemPrompt is the document-assistant persona prepended to every
// completion request.
const systemPrompt = `You are a helpful and knowledgeable document assistant chatbot. Your primary role is to help users find information from their documents using an integrated search system.

CORE BEHAVIOR:
- Always try to provide a helpful response, even if the information is partial
- Be conversational and friendly in your tone
- When you have relevant information, present it clearly and confidently
- If information is limited, acknowledge what you do know and offer to help further
- Maintain conversation continuity by referencing previous exchanges when relevant

RESPONSE GUIDELINES:
1. ALWAYS attempt to answer based on available document content
2. If you find relevant information, provide a comprehensive response with specific details
3. If information is partial, say "Based on the available information..." and provide what you can
4. If no relevant information is found, suggest alternative questions or topics the user might explore
5. Never simply say "I don't know" without attempting to be helpful
6. Ask clarifying questions when the user's intent is unclear
7. Provide context and explain technical terms when necessary

CONVERSATION FLOW:
- Acknowledge the user's question
- Search through available documents
- Provide the most relevant information found
- Offer additional help or related information when appropriate
- Reference previous conversation context when it adds value to the current response

Remember: You are designed to be maximally helpful. Even when perfect information isn't available, guide the user toward useful insights or suggest ways to refine their search.`

// Chat runs one conversation turn: persist the user message, ask the
// completion endpoint with recent history as context, persist and return
// the answer. A fatal completion failure is recorded as an error-role
// message and returned to the caller.
func (s *Service) Chat(ctx context.Context, req *domain.ChatRequest) (string, error) {
	s.history.Save(ctx, &domain.Message{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		UserRoles: req.UserRoles,
		Role:      domain.RoleUser,
		Content:   req.Message,
	})

	answer, err := s.complete(ctx, req.SessionID, req.Message)
	if err != nil {
		log.Printf("ERROR: chat turn failed for session %s: %v", req.SessionID, err)
		s.history.Save(ctx, &domain.Message{
			SessionID: req.SessionID,
			UserID:    req.UserID,
			UserRoles: req.UserRoles,
			Role:      domain.RoleError,
			Content:   err.Error(),
		})
		return "", err
	}

	s.history.Save(ctx, &domain.Message{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		UserRoles: req.UserRoles,
		Role:      domain.RoleAssistant,
		Content:   answer,
	})
	return answer, nil
}

// complete assembles the prompt once and runs the retrying completion.
// Retries reuse the identical request.
func (s *Service) complete(ctx context.Context, sessionID, input string) (string, error) {
	req := llm.NewDocumentRequest(s.buildPrompt(ctx, sessionID, input), s.search)

	return s.retrier.Run(ctx, func(ctx context.Context) (string, error) {
		return s.completeOnce(ctx, req)
	})
}

// completeOnce performs a single upstream call inside a concurrency slot.
func (s *Service) completeOnce(ctx context.Context, req *llm.ChatCompletionRequest) (string, error) {
	if err := s.completions.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire completion slot: %w", err)
	}
	defer s.completions.Release(1)

	resp, err := s.llmClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", fmt.Errorf("completion returned no choices")
	}

	msg := resp.Choices[0].Message
	if len(msg.Context) > 0 {
		log.Printf("INFO: completion %s returned citation context (%d bytes)", resp.ID, len(msg.Context))
	}
	return msg.Content, nil
}

// buildPrompt returns the system instruction, up to contextWindow stored
// messages oldest first, then the new input. Error rows are skipped: the
// completion API accepts only the standard chat roles.
func (s *Service) buildPrompt(ctx context.Context, sessionID, input string) []llm.ChatMessage {
	messages := []llm.ChatMessage{{Role: "system", Content: systemPrompt}}

	res := s.history.Recent(ctx, sessionID, contextWindow)
	if len(res.Messages) > 0 {
		log.Printf("INFO: using %d stored messages as context for session %s", len(res.Messages), sessionID)
	}
	for _, m := range res.Messages {
		if m.Role == domain.RoleError {
			continue
		}
		messages = append(messages, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	return append(messages, llm.ChatMessage{Role: "user", Content: input})
}
