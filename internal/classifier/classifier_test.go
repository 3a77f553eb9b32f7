package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xaenox/interview-bot/internal/llm"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

func TestExtractField(t *testing.T) {
	analysis := "1. Niveau d'expérience en entretien: débutant\n" +
		"2. NIVEAU D'ANXIÉTÉ : élevé\n" +
		"3. Besoins d'adaptation spécifiques\n" +
		"4. Format d'apprentissage préféré: progressif"

	tests := []struct {
		label string
		want  string
	}{
		{LabelExperience, "débutant"},
		{LabelLearning, "progressif"},
		{LabelNeeds, FallbackValue},
		{"Inconnu", FallbackValue},
	}
	for _, tt := range tests {
		if got := ExtractField(analysis, tt.label); got != tt.want {
			t.Errorf("ExtractField(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestExtractFieldEmpty(t *testing.T) {
	if got := ExtractField("", LabelAnxiety); got != FallbackValue {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestIsAffirmative(t *testing.T) {
	for reply, want := range map[string]bool{
		"OUI":          true,
		"oui.":         true,
		"Non":          false,
		"Je pense Oui": true,
		"":             false,
	} {
		if got := IsAffirmative(reply); got != want {
			t.Errorf("IsAffirmative(%q) = %v, want %v", reply, got, want)
		}
	}
}

func TestShouldAdvance(t *testing.T) {
	rec := llm.NewRecorder(llm.Func(func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		return "oui", nil
	}))
	c := NewGPTClassifier(rec, zap.NewNop())

	history := []models.Message{{Role: models.RoleUser, Content: "bonjour"}}
	if !c.ShouldAdvance(context.Background(), history, models.StagePreparation) {
		t.Fatal("expected advance")
	}

	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if !strings.Contains(calls[0].SystemPrompt, "Étape actuelle: Preparation") {
		t.Errorf("unexpected system prompt %q", calls[0].SystemPrompt)
	}
	last := calls[0].History[len(calls[0].History)-1]
	if last.Role != models.RoleUser || last.Content != advanceQuestion {
		t.Errorf("expected the readiness question last, got %+v", last)
	}
}

func TestShouldAdvanceOnError(t *testing.T) {
	c := NewGPTClassifier(llm.Func(func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		return "", &llm.Error{Kind: llm.KindTimeout}
	}), zap.NewNop())

	if c.ShouldAdvance(context.Background(), nil, models.StageIntroduction) {
		t.Fatal("expected no advance on failure")
	}
}

func TestAnalyzeProfile(t *testing.T) {
	c := NewGPTClassifier(llm.Func(func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		if !strings.Contains(history[0].Content, "Réponse: oui") {
			t.Errorf("answers missing from prompt: %q", history[0].Content)
		}
		return "Niveau d'expérience: avancé\nNiveau d'anxiété: faible", nil
	}), zap.NewNop())

	got, err := c.AnalyzeProfile(context.Background(), []QA{{Question: "Q?", Answer: "oui"}})
	if err != nil {
		t.Fatalf("AnalyzeProfile: %v", err)
	}
	if got.ExperienceLevel != "avancé" || got.AnxietyLevel != "faible" || got.LearningPreference != FallbackValue {
		t.Errorf("unexpected analysis %+v", got)
	}
}

func TestAnalyzeProfileFailure(t *testing.T) {
	boom := errors.New("boom")
	c := NewGPTClassifier(llm.Func(func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		return "", boom
	}), zap.NewNop())

	if _, err := c.AnalyzeProfile(context.Background(), []QA{{Question: "Q?", Answer: "A"}}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := c.AnalyzeProfile(context.Background(), nil); err == nil {
		t.Fatal("expected error without answers")
	}
}
