package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"trialcover-backend/models"
	"trialcover-backend/repository"

	"github.com/google/uuid"
)

// DocumentService renders printable insurance documents for a project
type DocumentService struct {
	projectRepo *repository.ProjectRepository
	profileRepo *repository.ProfileRepository
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

// DocumentWithProjectRepository sets the project repository
func DocumentWithProjectRepository(repo *repository.ProjectRepository) DocumentServiceOption {
	return func(s *DocumentService) {
		s.projectRepo = repo
	}
}

// DocumentWithProfileRepository sets the profile repository
func DocumentWithProfileRepository(repo *repository.ProfileRepository) DocumentServiceOption {
	return func(s *DocumentService) {
		s.profileRepo = repo
	}
}

// NewDocumentService creates a new document service
func NewDocumentService(opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var ErrDocumentRenderFailed = errors.New("failed to render document")

// documentData is the template context shared by both documents
type documentData struct {
	Project      *models.Project
	Profile      *models.Profile
	GeneratedAt  string
	FinalPremium string
	PremiumBand  string
	Coverage     string
	RiskTags     []string
}

var inquiryTemplate = template.Must(template.New("inquiry").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<title>临床试验责任险询价单</title>
<style>
body { font-family: "SimSun", serif; margin: 40px; color: #111; }
h1 { text-align: center; font-size: 22px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
td, th { border: 1px solid #444; padding: 8px 10px; font-size: 14px; text-align: left; }
th { background: #f0f0f0; width: 28%; }
.footer { margin-top: 32px; font-size: 12px; color: #555; }
</style>
</head>
<body>
<h1>临床试验责任险询价单</h1>
<p>询价编号:{{.Project.ProjectCode}}&emsp;生成日期:{{.GeneratedAt}}</p>
<table>
<tr><th>方案编号</th><td>{{.Project.ProtocolNumber}}</td></tr>
<tr><th>方案名称</th><td>{{.Project.Name}}</td></tr>
<tr><th>试验药物</th><td>{{.Project.TrialDrug}}</td></tr>
<tr><th>试验分期</th><td>{{.Project.TrialPhase}}</td></tr>
<tr><th>申办方</th><td>{{.Project.Sponsor}}</td></tr>
<tr><th>适应症</th><td>{{.Project.Indication}}</td></tr>
<tr><th>受试者人数</th><td>{{.Project.SubjectCount}} 人</td></tr>
<tr><th>试验周期</th><td>{{.Project.DurationMonths}} 个月</td></tr>
<tr><th>中心数量</th><td>{{.Project.SiteCount}} 家</td></tr>
<tr><th>风险提示</th><td>{{range $i, $t := .RiskTags}}{{if $i}}、{{end}}{{$t}}{{end}}</td></tr>
<tr><th>每人保额</th><td>{{.Coverage}}</td></tr>
<tr><th>预估保费区间</th><td>{{.PremiumBand}}</td></tr>
<tr><th>风险评分</th><td>{{.Project.AIRiskScore}} / 100</td></tr>
</table>
<p class="footer">本询价单由系统根据试验方案参数自动生成,最终保费以承保确认为准。</p>
</body>
</html>`))

var applicationTemplate = template.Must(template.New("application").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<title>临床试验责任险投保申请书</title>
<style>
body { font-family: "SimSun", serif; margin: 40px; color: #111; }
h1 { text-align: center; font-size: 22px; }
h2 { font-size: 16px; margin-top: 28px; border-bottom: 1px solid #888; padding-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
td, th { border: 1px solid #444; padding: 8px 10px; font-size: 14px; text-align: left; }
th { background: #f0f0f0; width: 28%; }
.sign { margin-top: 48px; display: flex; justify-content: space-between; font-size: 14px; }
</style>
</head>
<body>
<h1>临床试验责任险投保申请书</h1>
<p>申请编号:{{.Project.ProjectCode}}&emsp;申请日期:{{.GeneratedAt}}</p>
<h2>一、投保人信息</h2>
<table>
{{if .Profile}}
<tr><th>投保单位</th><td>{{if .Profile.CompanyName}}{{.Profile.CompanyName}}{{end}}</td></tr>
<tr><th>联系人</th><td>{{if .Profile.ContactName}}{{.Profile.ContactName}}{{end}}</td></tr>
<tr><th>联系电话</th><td>{{if .Profile.Phone}}{{.Profile.Phone}}{{end}}</td></tr>
<tr><th>电子邮箱</th><td>{{.Profile.Email}}</td></tr>
{{end}}
</table>
<h2>二、试验信息</h2>
<table>
<tr><th>方案编号</th><td>{{.Project.ProtocolNumber}}</td></tr>
<tr><th>方案名称</th><td>{{.Project.Name}}</td></tr>
<tr><th>试验药物</th><td>{{.Project.TrialDrug}}</td></tr>
<tr><th>试验分期</th><td>{{.Project.TrialPhase}}</td></tr>
<tr><th>申办方</th><td>{{.Project.Sponsor}}</td></tr>
<tr><th>适应症</th><td>{{.Project.Indication}}</td></tr>
<tr><th>受试者人数</th><td>{{.Project.SubjectCount}} 人</td></tr>
<tr><th>试验周期</th><td>{{.Project.DurationMonths}} 个月</td></tr>
<tr><th>中心数量</th><td>{{.Project.SiteCount}} 家</td></tr>
</table>
<h2>三、承保方案</h2>
<table>
<tr><th>每人保额</th><td>{{.Coverage}}</td></tr>
<tr><th>风险系数</th><td>{{printf "%.2f" .Project.RiskFactor}}</td></tr>
<tr><th>确认保费</th><td>{{.FinalPremium}}</td></tr>
</table>
<div class="sign">
<span>投保人签章:＿＿＿＿＿＿＿＿</span>
<span>日期:＿＿＿＿＿＿＿＿</span>
</div>
</body>
</html>`))

// RenderInquiryRequest represents a request to render an inquiry document
type RenderInquiryRequest struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

// RenderInquiryResult holds the rendered HTML
type RenderInquiryResult struct {
	HTML []byte
}

// RenderInquiry renders the pre-quote inquiry document for a project
func (s *DocumentService) RenderInquiry(ctx context.Context, req RenderInquiryRequest) (*RenderInquiryResult, error) {
	data, err := s.loadDocumentData(ctx, req.ProjectID, req.UserID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := inquiryTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRenderFailed, err)
	}

	return &RenderInquiryResult{HTML: buf.Bytes()}, nil
}

// RenderApplicationRequest represents a request to render an application document
type RenderApplicationRequest struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

// RenderApplicationResult holds the rendered HTML
type RenderApplicationResult struct {
	HTML []byte
}

// RenderApplication renders the formal application document. It requires a
// quoted or approved project so a confirmed premium exists to print.
func (s *DocumentService) RenderApplication(ctx context.Context, req RenderApplicationRequest) (*RenderApplicationResult, error) {
	data, err := s.loadDocumentData(ctx, req.ProjectID, req.UserID)
	if err != nil {
		return nil, err
	}

	if data.Project.FinalPremium == nil {
		return nil, fmt.Errorf("%w: %s -> application document", ErrInvalidStateTransition, data.Project.Status)
	}

	var buf bytes.Buffer
	if err := applicationTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRenderFailed, err)
	}

	return &RenderApplicationResult{HTML: buf.Bytes()}, nil
}

func (s *DocumentService) loadDocumentData(ctx context.Context, projectID, userID uuid.UUID) (*documentData, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrNotProjectOwner
	}

	data := &documentData{
		Project:     project,
		GeneratedAt: time.Now().Format("2006年01月02日"),
		PremiumBand: fmt.Sprintf("¥%s ~ ¥%s", formatAmount(project.PremiumMin), formatAmount(project.PremiumMax)),
		Coverage:    fmt.Sprintf("¥%s / 人", formatAmount(project.CoveragePerSubject)),
		RiskTags:    project.RiskFactors,
	}

	if project.FinalPremium != nil {
		data.FinalPremium = "¥" + formatAmount(*project.FinalPremium)
	}

	if s.profileRepo != nil {
		profile, err := s.profileRepo.GetByID(ctx, userID)
		if err == nil {
			data.Profile = profile
		}
	}

	return data, nil
}

// formatAmount renders an amount with thousands separators
func formatAmount(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var buf bytes.Buffer
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			buf.WriteByte(',')
		}
		buf.WriteRune(d)
	}

	if negative {
		return "-" + buf.String()
	}
	return buf.String()
}
