package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"bare object",
			`{"trialPhase": "II期"}`,
			`{"trialPhase": "II期"}`,
		},
		{
			"json code fence",
			"以下是提取结果：\n```json\n{\"subjectCount\": 120}\n```\n完毕。",
			`{"subjectCount": 120}`,
		},
		{
			"unlabeled code fence",
			"```\n{\"sponsor\": \"某某医药\"}\n```",
			`{"sponsor": "某某医药"}`,
		},
		{
			"surrounding prose without fences",
			"提取结果如下 {\"siteCount\": 8} 请核对",
			`{"siteCount": 8}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONBlock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractJSONBlockNoObject(t *testing.T) {
	_, err := extractJSONBlock("抱歉，无法从该文本中提取信息。")
	assert.Error(t, err)
}
