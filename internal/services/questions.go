package services

// DefaultQuestions is the predefined interview question set. The count and
// order are fixed for the lifetime of every form created from it.
func DefaultQuestions() []*Question {
	return []*Question{
		{
			ID:    "q_hobby",
			Order: 1,
			PromptI18n: map[string]string{
				"en": "Tell us about your favorite hobby or pastime.",
				"zh": "介绍一下你最喜欢的爱好或消遣。",
			},
		},
		{
			ID:    "q_travel",
			Order: 2,
			PromptI18n: map[string]string{
				"en": "What was your most memorable travel experience?",
				"zh": "你最难忘的旅行经历是什么？",
			},
		},
		{
			ID:    "q_workenv",
			Order: 3,
			PromptI18n: map[string]string{
				"en": "How would you describe your ideal work environment?",
				"zh": "你理想的工作环境是什么样的？",
			},
		},
		{
			ID:    "q_skills",
			Order: 4,
			PromptI18n: map[string]string{
				"en": "What skills are you looking to develop in the next year?",
				"zh": "来年你希望提升哪些技能？",
			},
		},
	}
}

// DefaultRecorderConfig mirrors the recorder settings the form hands to the
// recording provider: a 60 second cap and medium compression.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{MaxDurationSec: 60, Compression: "medium"}
}
