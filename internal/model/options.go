package model

// Option sets offered by the submission form and the onboarding prompts.
// Stored values are not restricted to these lists.
var (
	TechCategories = []string{
		"Machine Learning",
		"Natural Language Processing",
		"Computer Vision",
		"Generative AI",
		"Predictive Analytics",
		"Speech Recognition",
		"Robotics & Automation",
		"Data Analytics",
		"Conversational AI",
		"Other",
	}

	Industries = []string{
		"Government",
		"Healthcare",
		"Finance & Banking",
		"Education",
		"Energy",
		"Retail & E-commerce",
		"Manufacturing",
		"Transportation & Logistics",
		"Telecommunications",
		"Real Estate",
		"Agriculture",
		"Other",
	}

	DeploymentStatuses = []string{
		"Concept",
		"Prototype",
		"MVP",
		"Pilot",
		"Production",
	}
)

// Contains reports whether v is present in options.
func Contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
