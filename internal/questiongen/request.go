// Package questiongen turns a generation request into validated
// multiple-choice questions by driving a chain of LLM providers.
package questiongen

import (
	"strings"

	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/mcq"
)

// Question count bounds. Requests outside them are clamped.
const (
	MinQuestions = 1
	MaxQuestions = 100
)

// DefaultSubject is used when a request carries no topic, source material or
// image.
const DefaultSubject = "Computer Science"

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Taxonomy is the Bloom's taxonomy level the questions should target.
type Taxonomy string

const (
	TaxonomyRemembering   Taxonomy = "Remembering"
	TaxonomyUnderstanding Taxonomy = "Understanding"
	TaxonomyApplying      Taxonomy = "Applying"
	TaxonomyAnalyzing     Taxonomy = "Analyzing"
	TaxonomyEvaluating    Taxonomy = "Evaluating"
	TaxonomyCreating      Taxonomy = "Creating"
)

var taxonomies = []Taxonomy{
	TaxonomyRemembering,
	TaxonomyUnderstanding,
	TaxonomyApplying,
	TaxonomyAnalyzing,
	TaxonomyEvaluating,
	TaxonomyCreating,
}

// Request describes the questions to generate.
type Request struct {
	Topic          string     `json:"topic" yaml:"topic"`
	Difficulty     Difficulty `json:"difficulty" yaml:"difficulty"`
	Taxonomy       Taxonomy   `json:"taxonomy" yaml:"taxonomy"`
	QuestionCount  int        `json:"questionCount" yaml:"question_count"`
	SourceMaterial string     `json:"sourceMaterial,omitempty" yaml:"source_material"`
	SourceImage    *llm.Image `json:"sourceImage,omitempty" yaml:"source_image"`
}

// HasImage reports whether an image is attached.
func (r Request) HasImage() bool {
	return r.SourceImage != nil && r.SourceImage.Data != ""
}

// HasContent reports whether the request carries source text or an image.
func (r Request) HasContent() bool {
	return strings.TrimSpace(r.SourceMaterial) != "" || r.HasImage()
}

// Normalize returns a copy of r with the question count clamped, unknown
// difficulty and taxonomy replaced by their defaults, and the default subject
// substituted for a fully empty request.
func (r Request) Normalize() Request {
	r.Topic = strings.TrimSpace(r.Topic)
	r.QuestionCount = ClampCount(r.QuestionCount)
	r.Difficulty = parseDifficulty(r.Difficulty)
	r.Taxonomy = parseTaxonomy(r.Taxonomy)
	if !r.HasImage() {
		r.SourceImage = nil
	}
	if r.Topic == "" && !r.HasContent() {
		r.Topic = DefaultSubject
	}
	return r
}

// ClampCount limits n to [MinQuestions, MaxQuestions].
func ClampCount(n int) int {
	return max(MinQuestions, min(MaxQuestions, n))
}

func parseDifficulty(d Difficulty) Difficulty {
	for _, known := range difficulties {
		if strings.EqualFold(string(d), string(known)) {
			return known
		}
	}
	return DifficultyMedium
}

func parseTaxonomy(t Taxonomy) Taxonomy {
	for _, known := range taxonomies {
		if strings.EqualFold(string(t), string(known)) {
			return known
		}
	}
	return TaxonomyUnderstanding
}

// Result is a validated batch of questions.
type Result struct {
	Questions []mcq.Record `json:"questions"`

	// Provider and Model identify the chain link that served the batch.
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Requested is the clamped question count.
	Requested int `json:"requested"`

	// Partial is set when fewer questions than requested came back.
	Partial bool `json:"partial"`
}
