package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"trialcover-backend/extraction"
	"trialcover-backend/models"
	"trialcover-backend/pricing"
	"trialcover-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// AnalysisService handles protocol analysis logic
type AnalysisService struct {
	jobRepo      *repository.AnalysisJobRepository
	geminiClient *genai.Client
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithJobRepository sets the analysis job repository
func AnalysisWithJobRepository(repo *repository.AnalysisJobRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.jobRepo = repo
	}
}

// AnalysisWithGeminiClient sets the Gemini client
func AnalysisWithGeminiClient(client *genai.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.geminiClient = client
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrEmptyProtocol     = errors.New("protocol text is empty")
	ErrJobCreationFailed = errors.New("failed to create analysis job")
	ErrJobNotFound       = errors.New("analysis job not found")
	ErrExtractionFailed  = errors.New("failed to extract trial parameters")
	ErrGenerationFailed  = errors.New("failed to generate content")
)

// Pipeline step names shown to the polling client
const (
	stepExtract   = "Extracting Trial Parameters"
	stepReconcile = "Reconciling Intake Fields"
	stepQuote     = "Calculating Premium Quote"
)

// Protocol text beyond this is truncated before prompting; the pricing
// signal lives in the synopsis sections near the top of a protocol.
const maxProtocolChars = 30000

// AnalyzeProtocolRequest represents a request to analyze a protocol document
type AnalyzeProtocolRequest struct {
	UserID       uuid.UUID
	ProtocolText string
	// Previous holds the user's current form values; extraction output is
	// merged over it rather than replacing it.
	Previous models.TrialIntake
}

// AnalyzeProtocolResult represents the result of starting an analysis job
type AnalyzeProtocolResult struct {
	JobID uuid.UUID
}

// AnalyzeProtocol creates an analysis job and returns immediately.
// The actual extraction runs in ProcessAnalysis in the background.
func (s *AnalysisService) AnalyzeProtocol(
	ctx context.Context,
	req AnalyzeProtocolRequest,
) (*AnalyzeProtocolResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	if strings.TrimSpace(req.ProtocolText) == "" {
		return nil, ErrEmptyProtocol
	}

	job := &models.AnalysisJob{
		UserID: req.UserID,
		Status: models.JobStatusPending,
		Steps: models.AnalysisSteps{
			{Name: stepExtract, Status: "pending"},
			{Name: stepReconcile, Status: "pending"},
			{Name: stepQuote, Status: "pending"},
		},
	}

	err := s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, ErrJobCreationFailed
	}

	return &AnalyzeProtocolResult{JobID: job.ID}, nil
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.AnalysisJob
}

// GetJobStatus retrieves the status of an analysis job
func (s *AnalysisService) GetJobStatus(
	ctx context.Context,
	req GetJobStatusRequest,
) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// ProcessAnalysis performs the extraction pipeline in the background.
// This method runs in a goroutine; the client polls GetJobStatus.
func (s *AnalysisService) ProcessAnalysis(
	ctx context.Context,
	jobID uuid.UUID,
	protocolText string,
	previous models.TrialIntake,
) error {
	if s.jobRepo == nil {
		return errors.New("analysis job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load analysis job: %w", err)
	}

	steps := job.Steps

	// 1. Extract structured parameters from the protocol text
	setStepStatus(steps, stepExtract, "in_progress")
	if err := s.jobRepo.UpdateProgress(ctx, jobID, stepExtract, steps); err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	raw, err := s.extractTrialParameters(ctx, protocolText)
	if err != nil {
		setStepStatus(steps, stepExtract, "failed")
		s.markJobFailed(ctx, jobID, steps, "extraction failed: "+err.Error())
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	setStepStatus(steps, stepExtract, "completed")

	// 2. Reconcile extraction output over the user's current values
	setStepStatus(steps, stepReconcile, "in_progress")
	if err := s.jobRepo.UpdateProgress(ctx, jobID, stepReconcile, steps); err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	draft := extraction.Reconcile(raw, previous, time.Now())
	setStepStatus(steps, stepReconcile, "completed")

	// 3. Quote
	setStepStatus(steps, stepQuote, "in_progress")
	if err := s.jobRepo.UpdateProgress(ctx, jobID, stepQuote, steps); err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	quote := pricing.CalculatePremium(draft.Intake)
	setStepStatus(steps, stepQuote, "completed")

	result := &models.AnalysisResult{
		Intake:     draft.Intake,
		AutoFilled: draft.AutoFilledFields(),
		Confidence: draft.Confidence,
		TierCounts: draft.Tally().Map(),
		Quote:      quote,
	}

	if err := s.jobRepo.Complete(ctx, jobID, steps, result); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// setStepStatus updates one named step in place
func setStepStatus(steps models.AnalysisSteps, name, status string) {
	for i := range steps {
		if steps[i].Name == name {
			steps[i].Status = status
			return
		}
	}
}

// markJobFailed marks a job as failed with an error message
func (s *AnalysisService) markJobFailed(ctx context.Context, jobID uuid.UUID, steps models.AnalysisSteps, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, steps, errorMessage); err != nil {
		log.Printf("Warning: failed to mark analysis job %s as failed: %v", jobID, err)
	}
}

// extractTrialParameters prompts the model for a structured reading of the
// protocol and parses its JSON reply. Absent fields are fine; the reconciler
// treats them as "not provided".
func (s *AnalysisService) extractTrialParameters(ctx context.Context, protocolText string) (extraction.ExtractionResult, error) {
	var result extraction.ExtractionResult

	if s.geminiClient == nil {
		return result, errors.New("gemini client not set")
	}

	if len(protocolText) > maxProtocolChars {
		protocolText = protocolText[:maxProtocolChars]
	}

	prompt := fmt.Sprintf(`你是临床试验责任险的核保助手。请从下面的试验方案文本中提取承保所需的参数。

输出要求:
- 只输出一个 JSON 对象,不要输出任何其他文字
- 字段: protocolNumber(方案编号), protocolName(方案名称), trialPhase(试验分期, 取值 "I期"|"I/II期"|"II期"|"II/III期"|"III期"|"IV期"|"BE试验"), subjectCount(受试者人数, 整数), drugType(试验药物), indication(适应症), sponsor(申办方), durationMonths(试验周期, 月, 整数), siteCount(中心数量, 整数), risks(风险提示, 字符串数组, 如 ["肿瘤适应症","儿童受试者"])
- 另加 confidence 对象: 对每个已提取字段给出 0-100 的置信度(键名与字段名一致, 试验药物用 drugType)
- 文本中找不到的字段直接省略, 不要编造

试验方案文本:
%s`, protocolText)

	text, err := callGenerationAPIWithRetry(ctx, prompt, 0.1)
	if err != nil {
		return result, err
	}

	jsonBlock, err := extractJSONBlock(text)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(jsonBlock), &result); err != nil {
		return result, fmt.Errorf("failed to parse extraction output: %w", err)
	}

	return result, nil
}
