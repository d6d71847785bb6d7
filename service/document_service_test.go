package service

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialcover-backend/models"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "800", formatAmount(800))
	assert.Equal(t, "1,000", formatAmount(1000))
	assert.Equal(t, "256,000", formatAmount(256000))
	assert.Equal(t, "100,000,000", formatAmount(100000000))
	assert.Equal(t, "-23,200", formatAmount(-23200))
}

func stringPtr(s string) *string {
	return &s
}

func documentTestData() *documentData {
	finalPremium := int64(128000)
	return &documentData{
		Project: &models.Project{
			ID:             uuid.New(),
			ProjectCode:    "TC-20250601-0042",
			Name:           "某某药物II期研究",
			ProtocolNumber: "CTP-2025-001",
			TrialDrug:      "PD-1单抗",
			TrialPhase:     models.PhaseII,
			Sponsor:        "某某医药",
			Indication:     "非小细胞肺癌",
			SubjectCount:   120,
			DurationMonths: 18,
			SiteCount:      8,
			RiskFactor:     1.6,
			FinalPremium:   &finalPremium,
			AIRiskScore:    64,
		},
		Profile: &models.Profile{
			Email:       "demo@example.com",
			CompanyName: stringPtr("演示药业有限公司"),
		},
		GeneratedAt:  "2025-06-01",
		FinalPremium: "¥128,000",
		PremiumBand:  "¥138,240 - ¥168,960",
		Coverage:     "¥500,000",
		RiskTags:     []string{"肿瘤受试者", "注射给药"},
	}
}

func TestInquiryTemplateRenders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, inquiryTemplate.Execute(&buf, documentTestData()))

	html := buf.String()
	assert.Contains(t, html, "临床试验责任险询价单")
	assert.Contains(t, html, "TC-20250601-0042")
	assert.Contains(t, html, "CTP-2025-001")
	assert.Contains(t, html, "肿瘤受试者、注射给药")
	assert.Contains(t, html, "¥138,240 - ¥168,960")
}

func TestApplicationTemplateRenders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, applicationTemplate.Execute(&buf, documentTestData()))

	html := buf.String()
	assert.Contains(t, html, "临床试验责任险投保申请书")
	assert.Contains(t, html, "演示药业有限公司")
	assert.Contains(t, html, "¥128,000")
	assert.Contains(t, html, "1.60")
}
