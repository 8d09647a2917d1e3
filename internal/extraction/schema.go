package extraction

import (
	"fmt"
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindList
	kindFlag
)

type field struct {
	Key     string
	Kind    fieldKind
	Hint    string
	Options []string
}

// Steps is the number of wizard steps with an extraction schema.
const Steps = 4

var stepSchemas = map[int][]field{
	1: {
		{Key: "solutionName", Kind: kindText, Hint: "name of the AI solution or product"},
		{Key: "description", Kind: kindText, Hint: "what the solution does and for whom"},
		{Key: "companyName", Kind: kindText, Hint: "vendor company name"},
		{Key: "contactEmail", Kind: kindText, Hint: "contact email address"},
	},
	2: {
		{Key: "website", Kind: kindText, Hint: "company or product website URL"},
		{Key: "techCategory", Kind: kindList, Hint: "technology categories", Options: model.TechCategories},
		{Key: "industryFocus", Kind: kindList, Hint: "target industries", Options: model.Industries},
	},
	3: {
		{Key: "deploymentStatus", Kind: kindText, Hint: "maturity of the solution", Options: model.DeploymentStatuses},
		{Key: "clients", Kind: kindText, Hint: "notable clients or deployments"},
		{Key: "arabicSupport", Kind: kindFlag, Hint: "whether the solution supports Arabic"},
		{Key: "arabicDetails", Kind: kindText, Hint: "details of the Arabic support"},
	},
	4: {
		{Key: "ksaCustomization", Kind: kindFlag, Hint: "whether it has been customized for Saudi Arabia"},
		{Key: "ksaCustomizationDetails", Kind: kindText, Hint: "details of the KSA customization"},
	},
}

// StepKeys returns the target keys of a step, in schema order.
func StepKeys(step int) []string {
	fields := stepSchemas[step]
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func stepPrompt(step int) string {
	var sb strings.Builder
	sb.WriteString("You extract structured data about an AI solution from a vendor's message. ")
	sb.WriteString("Return strict JSON only: a single object whose keys are a subset of the keys below. ")
	sb.WriteString("Include a key only when the message states a value for it. Do not invent values.\n\nKeys:\n")
	for _, f := range stepSchemas[step] {
		switch f.Kind {
		case kindList:
			fmt.Fprintf(&sb, "- %s: array of strings, %s", f.Key, f.Hint)
		case kindFlag:
			fmt.Fprintf(&sb, "- %s: boolean, %s", f.Key, f.Hint)
		default:
			fmt.Fprintf(&sb, "- %s: string, %s", f.Key, f.Hint)
		}
		if len(f.Options) > 0 {
			fmt.Fprintf(&sb, "; map to the closest of: %s", strings.Join(f.Options, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// filterStep keeps only the step's keys that carry an actual value,
// coercing each to its declared shape.
func filterStep(step int, obj map[string]any) map[string]any {
	out := map[string]any{}
	for _, f := range stepSchemas[step] {
		raw, ok := obj[f.Key]
		if !ok || raw == nil {
			continue
		}
		switch f.Kind {
		case kindText:
			var s string
			switch v := raw.(type) {
			case string:
				s = v
			case float64, bool:
				s = fmt.Sprint(v)
			}
			if s = strings.TrimSpace(s); s != "" {
				out[f.Key] = s
			}
		case kindList:
			if list := model.NormalizeToStringArray(raw); len(list) > 0 {
				out[f.Key] = list
			}
		case kindFlag:
			if b, ok := asBool(raw); ok {
				out[f.Key] = b
			}
		}
	}
	return out
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "نعم":
			return true, true
		case "false", "no", "n", "لا":
			return false, true
		}
	}
	return false, false
}
