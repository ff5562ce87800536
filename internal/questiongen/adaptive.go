package questiongen

import "fmt"

const (
	adaptiveFallbackTopic = "General Technology"
	adaptiveQuestionCount = 10
)

// AdaptiveRequest builds a remedial quiz request from a learner's topic
// performance. It targets the first weak topic; without any performance
// data it falls back to a general quiz.
func AdaptiveRequest(weakTopics, strongTopics []string) Request {
	req := Request{
		Difficulty:    DifficultyMedium,
		Taxonomy:      TaxonomyUnderstanding,
		QuestionCount: adaptiveQuestionCount,
	}

	if len(weakTopics) == 0 && len(strongTopics) == 0 {
		req.Topic = adaptiveFallbackTopic
		return req
	}

	weak := "General"
	if len(weakTopics) > 0 && weakTopics[0] != "" {
		weak = weakTopics[0]
	}
	req.Topic = weak
	req.SourceMaterial = fmt.Sprintf(
		"Focus specifically on correcting misconceptions about %s. The student has a history of low scores here.",
		weak,
	)
	return req
}
