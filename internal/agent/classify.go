package agent

import (
	"strings"
	"unicode"
)

// reportPhrases mark a message as asking for a research report. Matching
// is on whole words or phrases after case folding.
var reportPhrases = []string{
	// English
	"report",
	"research",
	"analysis",
	"analyze",
	"analyse",
	"market study",
	"comparison",
	"compare",
	"deep dive",
	"overview of",
	"whitepaper",
	"white paper",
	// Arabic
	"تقرير",
	"بحث",
	"دراسة",
	"تحليل",
	"مقارنة",
	"قارن",
}

// IsReportRequest reports whether a chat message asks for something worth
// saving as a research report.
func IsReportRequest(message string) bool {
	text := " " + normalize(message) + " "
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, phrase := range reportPhrases {
		if strings.Contains(text, " "+phrase+" ") {
			return true
		}
		// Arabic attaches articles and conjunctions as prefixes.
		if isArabic(phrase) {
			for _, prefix := range []string{"ال", "و", "وال", "بال", "لل"} {
				if strings.Contains(text, " "+prefix+phrase+" ") {
					return true
				}
			}
		}
	}
	return false
}

// singular folds plural forms onto the phrase list entries.
var singular = map[string]string{
	"reports":     "report",
	"analyses":    "analysis",
	"comparisons": "comparison",
	"تقارير":      "تقرير",
	"دراسات":      "دراسة",
	"أبحاث":       "بحث",
	"ابحاث":       "بحث",
}

// normalize lowercases, turns punctuation into spaces and folds plurals.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		if one, ok := singular[w]; ok {
			words[i] = one
		}
	}
	return strings.Join(words, " ")
}

func isArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
