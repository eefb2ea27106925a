package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/llm"
)

const assistantPrompt = `You are the 'MCC Intelligent Assistant'.
You have access to the Plant Data Management System (PDMS).
Current Plant Status:
- Active Production Batches: %d
- Batches Waiting for QC: %d

Technical Knowledge:
MCC manufacturing involves Pre-treatment, Acid Hydrolysis, Washing, Spray Drying, and Milling.
Standard pH for hydrolysis is usually 1.5 - 2.5.
Answer professionally and prioritize plant safety and quality standards.`

// AssistantService 带工厂实时状态的问答助手
type AssistantService struct {
	batches *repository.BatchRepository
	chat    llm.ChatClient
}

func NewAssistantService(batches *repository.BatchRepository, chat llm.ChatClient) *AssistantService {
	return &AssistantService{batches: batches, chat: chat}
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

func (s *AssistantService) Ask(ctx context.Context, question string) (*AskResponse, error) {
	if s.chat == nil {
		return nil, apperr.Internal(nil, "assistant is not configured")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperr.Validation("question is required")
	}

	active, err := s.batches.CountByStatus(ctx, entity.BatchStatusActive)
	if err != nil {
		return nil, apperr.Internal(err, "count active batches")
	}
	pending, err := s.batches.CountByStatus(ctx, entity.BatchStatusPendingQC)
	if err != nil {
		return nil, apperr.Internal(err, "count pending batches")
	}

	answer, err := s.chat.Complete(ctx, fmt.Sprintf(assistantPrompt, active, pending), question)
	if err != nil {
		return nil, apperr.Internal(err, "assistant request failed")
	}
	return &AskResponse{Answer: answer}, nil
}
