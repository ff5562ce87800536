package questiongen

import (
	"strings"
	"testing"

	"github.com/abhisek/mcqgen/internal/llm"
)

func TestCompose_Deterministic(t *testing.T) {
	req := Request{
		Topic:          "Operating Systems",
		Difficulty:     DifficultyHard,
		Taxonomy:       TaxonomyApplying,
		QuestionCount:  12,
		SourceMaterial: `A "process" is a program in execution.`,
	}
	first := Compose(req)
	for range 5 {
		if got := Compose(req); got != first {
			t.Fatal("Compose is not deterministic")
		}
	}
}

func TestCompose_EncodesFields(t *testing.T) {
	p := Compose(Request{
		Topic:         "Networking",
		Difficulty:    DifficultyEasy,
		Taxonomy:      TaxonomyRemembering,
		QuestionCount: 7,
	})

	for _, want := range []string{
		`- topic: "Networking"`,
		`- difficulty: "Easy"`,
		`- taxonomy: "Remembering"`,
		"- questions: 7",
		"- image provided: false",
		"Content provided: none.",
		"Output EXACTLY 7 questions.",
		"single JSON array",
		`"answer": "exact option text"`,
		"at most 30 words",
		"must be unique",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCompose_ClampsCount(t *testing.T) {
	p := Compose(Request{QuestionCount: 1000})
	if !strings.Contains(p, "Output EXACTLY 100 questions.") {
		t.Fatalf("expected clamp to 100, prompt:\n%s", p)
	}
	if strings.Contains(p, "1000") {
		t.Fatal("prompt still mentions the unclamped count")
	}
}

func TestCompose_EmptyRequestUsesDefaultSubject(t *testing.T) {
	p := Compose(Request{QuestionCount: 10})
	if !strings.Contains(p, `- topic: "Computer Science"`) {
		t.Fatalf("expected default subject, prompt:\n%s", p)
	}
}

func TestCompose_ImageAnnouncedNotEmbedded(t *testing.T) {
	img := &llm.Image{MIMEType: "image/png", Data: "aVZCT1J3MEtHZ29BQUFBTlNVaEVVZ0FBQUFFQUFBQUJD"}
	p := Compose(Request{Topic: "Biology", QuestionCount: 5, SourceImage: img})

	if !strings.Contains(p, "- image provided: true") {
		t.Fatal("expected image flag")
	}
	if !strings.Contains(p, "Content provided: the provided image.") {
		t.Fatal("expected image as the content source")
	}
	if strings.Contains(p, img.Data) {
		t.Fatal("image bytes must not be embedded in the prompt")
	}
}

func TestCompose_SourceMaterialBoundsContent(t *testing.T) {
	p := Compose(Request{SourceMaterial: "TCP uses a three-way handshake.", QuestionCount: 3})
	if !strings.Contains(p, "Content provided: the provided study material.") {
		t.Fatal("expected study material as the content source")
	}
	if !strings.Contains(p, "STRICTLY from it") {
		t.Fatal("expected strict content rule")
	}
	if strings.Contains(p, `- topic: "Computer Science"`) {
		t.Fatal("default subject must not replace a material-backed request")
	}
}
