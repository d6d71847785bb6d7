package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trialcover-backend/models"
	"trialcover-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// QAService answers insurance questions, optionally grounded on one
// project's intake and quote
type QAService struct {
	chatRepo     *repository.ChatRepository
	projectRepo  *repository.ProjectRepository
	geminiClient *genai.Client
}

// QAServiceOption is a functional option for QAService
type QAServiceOption func(*QAService)

// QAWithChatRepository sets the chat repository
func QAWithChatRepository(repo *repository.ChatRepository) QAServiceOption {
	return func(s *QAService) {
		s.chatRepo = repo
	}
}

// QAWithProjectRepository sets the project repository
func QAWithProjectRepository(repo *repository.ProjectRepository) QAServiceOption {
	return func(s *QAService) {
		s.projectRepo = repo
	}
}

// QAWithGeminiClient sets the Gemini client
func QAWithGeminiClient(client *genai.Client) QAServiceOption {
	return func(s *QAService) {
		s.geminiClient = client
	}
}

// NewQAService creates a new Q&A service
func NewQAService(opts ...QAServiceOption) *QAService {
	s := &QAService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var ErrEmptyQuestion = errors.New("question is empty")

// Conversation turns included as context in each prompt
const qaHistoryLimit = 10

// knowledgeBase is the product knowledge the assistant answers from. Facts
// it cannot find here or in the project context it must decline to invent.
const knowledgeBase = `产品知识:
- 产品: 临床试验责任险, 承保临床试验中受试者发生与试验相关损害的赔偿责任。
- 保额: 每名受试者保额 50 万元, 总保额 = 受试者人数 × 50 万元。
- 保费: 基准费率为每名受试者 800 元, 乘以风险系数得到基准保费, 报价区间为基准保费的 ±10%。
- 风险系数: 由试验分期和风险提示决定。I期 +0.5, I/II期 +0.8, II期和 II/III期 +0.3, III期、IV期、BE试验不加成。肿瘤、癌症、CAR-T、基因治疗、儿童受试者等高风险项每项 +0.2, 老年受试者、多次给药、注射给药等中风险项每项 +0.1。
- 核保: 核保人可在 0.8 至 2.5 之间人工调整风险系数, 确认保费 = 受试者人数 × 800 × 风险系数。
- 理赔: 赔付金额 = (发票金额 − 医保报销金额 − 1000 元免赔额) × 80% 赔付比例, 不足为零时按零计。
- 流程: 询价(pending) → 报价(quoted) → 承保(approved)或拒保(rejected)。承保后方可提交理赔。`

// AskRequest represents one question to the assistant
type AskRequest struct {
	UserID    uuid.UUID
	ProjectID *uuid.UUID
	Question  string
}

// AskResult represents the assistant's answer
type AskResult struct {
	Answer string
}

// Ask answers a question using the product knowledge base, the optional
// project context and recent conversation history, then persists both turns
func (s *QAService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	if s.chatRepo == nil {
		return nil, errors.New("chat repository not set")
	}
	if s.geminiClient == nil {
		return nil, errors.New("gemini client not set")
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	var builder strings.Builder
	builder.WriteString("你是临床试验责任险的客服助手。仅根据下面的产品知识和项目信息回答, 不要编造产品知识之外的条款。回答用中文, 简洁直接。\n\n")
	builder.WriteString(knowledgeBase)
	builder.WriteString("\n\n")

	if req.ProjectID != nil && s.projectRepo != nil {
		project, err := s.projectRepo.GetByID(ctx, *req.ProjectID)
		if err == nil && project.UserID == req.UserID {
			builder.WriteString(projectContext(project))
			builder.WriteString("\n\n")
		}
	}

	history, err := s.chatRepo.ListByUserID(ctx, req.UserID, req.ProjectID, qaHistoryLimit)
	if err == nil && len(history) > 0 {
		builder.WriteString("对话历史:\n")
		for _, message := range history {
			role := "用户"
			if message.Role == "assistant" {
				role = "助手"
			}
			builder.WriteString(fmt.Sprintf("%s: %s\n", role, message.Content))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("用户: ")
	builder.WriteString(question)

	answer, err := callGenerationAPIWithRetry(ctx, builder.String(), 0.3)
	if err != nil {
		return nil, err
	}

	userMessage := &models.ChatMessage{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Role:      "user",
		Content:   question,
	}
	if err := s.chatRepo.Create(ctx, userMessage); err != nil {
		return nil, err
	}

	assistantMessage := &models.ChatMessage{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Role:      "assistant",
		Content:   answer,
	}
	if err := s.chatRepo.Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	return &AskResult{Answer: answer}, nil
}

// GetHistoryRequest represents a request for conversation history
type GetHistoryRequest struct {
	UserID    uuid.UUID
	ProjectID *uuid.UUID
	Limit     int
}

// GetHistoryResult represents the conversation history
type GetHistoryResult struct {
	Messages []*models.ChatMessage
}

// GetHistory returns recent conversation turns in chronological order
func (s *QAService) GetHistory(ctx context.Context, req GetHistoryRequest) (*GetHistoryResult, error) {
	if s.chatRepo == nil {
		return nil, errors.New("chat repository not set")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	messages, err := s.chatRepo.ListByUserID(ctx, req.UserID, req.ProjectID, limit)
	if err != nil {
		return nil, err
	}

	return &GetHistoryResult{Messages: messages}, nil
}

// projectContext formats one project's facts for the prompt
func projectContext(project *models.Project) string {
	var builder strings.Builder
	builder.WriteString("当前项目信息:\n")
	builder.WriteString(fmt.Sprintf("- 项目编号: %s\n", project.ProjectCode))
	builder.WriteString(fmt.Sprintf("- 方案名称: %s\n", project.Name))
	builder.WriteString(fmt.Sprintf("- 试验分期: %s\n", project.TrialPhase))
	builder.WriteString(fmt.Sprintf("- 试验药物: %s\n", project.TrialDrug))
	builder.WriteString(fmt.Sprintf("- 适应症: %s\n", project.Indication))
	builder.WriteString(fmt.Sprintf("- 受试者人数: %d\n", project.SubjectCount))
	builder.WriteString(fmt.Sprintf("- 风险评分: %d/100\n", project.AIRiskScore))
	builder.WriteString(fmt.Sprintf("- 报价区间: %d ~ %d 元\n", project.PremiumMin, project.PremiumMax))
	builder.WriteString(fmt.Sprintf("- 状态: %s\n", project.Status))
	if project.FinalPremium != nil {
		builder.WriteString(fmt.Sprintf("- 确认保费: %d 元\n", *project.FinalPremium))
	}
	return builder.String()
}
