package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReportRequest(t *testing.T) {
	for _, tc := range []struct {
		msg  string
		want bool
	}{
		{"Can you write a report on computer vision vendors?", true},
		{"REPORT: fintech AI", true},
		{"I need reports for healthcare", true},
		{"Do some research on NLP startups", true},
		{"Give me an analysis of the market", true},
		{"analyze these three options", true},
		{"Compare Acme and Globex", true},
		{"a comparison of chatbots", true},
		{"deep dive into Arabic speech recognition", true},
		{"an overview of predictive analytics tools", true},
		{"أريد تقرير عن حلول الرؤية الحاسوبية", true},
		{"التقرير الشامل", true},
		{"أعطني تقارير", true},
		{"دراسة السوق", true},
		{"تحليل المنافسين", true},
		{"وتحليل", true},
		{"قارن بين الحلول", true},
		{"Hello there", false},
		{"Which solution supports Arabic?", false},
		{"reporter of the year", false},
		{"researcher contacts", false},
		{"my overview", false},
		{"مرحبا", false},
		{"", false},
		{"   ", false},
	} {
		assert.Equal(t, tc.want, IsReportRequest(tc.msg), "IsReportRequest(%q)", tc.msg)
	}
}
