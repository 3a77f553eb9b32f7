package dialog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/xaenox/interview-bot/internal/classifier"
	"github.com/xaenox/interview-bot/internal/evaluation"
	"github.com/xaenox/interview-bot/internal/journal"
	"github.com/xaenox/interview-bot/internal/llm"
	"github.com/xaenox/interview-bot/internal/menu"
	"github.com/xaenox/interview-bot/internal/models"
	"github.com/xaenox/interview-bot/internal/questions"
	"github.com/xaenox/interview-bot/internal/storage"
	"go.uber.org/zap"
)

const (
	modelAnswer   = "réponse du modèle"
	modelQuestion = "Parlez-moi de vous."
	modelAdvice   = "Soyez bref."
)

// fakeModel answers by recognizing which prompt it received.
func fakeModel(advance string) llm.Func {
	return func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		switch {
		case strings.Contains(systemPrompt, "Réponds uniquement par OUI ou NON"):
			return advance, nil
		case strings.Contains(systemPrompt, "QUESTION: [ta question ici]"):
			return "QUESTION: " + modelQuestion + " CONSEIL: " + modelAdvice, nil
		default:
			return modelAnswer, nil
		}
	}
}

type harness struct {
	orch  *Orchestrator
	store *storage.MemoryStorage
	calls *llm.Recorder
}

func newHarness(t *testing.T, model llm.Completer) *harness {
	t.Helper()
	logger := zap.NewNop()
	rec := llm.NewRecorder(model)
	store := storage.NewMemoryStorage()
	clf := classifier.NewGPTClassifier(rec, logger)
	gen := questions.NewGenerator(rec, journal.Nop{}, logger)
	flow := evaluation.NewFlow(clf, journal.Nop{}, logger)

	orch := NewOrchestrator(store, rec, gen, flow, clf, journal.Nop{}, logger, Options{
		KnowledgeBase:      "Guide de test",
		MaxContextMessages: 20,
		AdvanceThreshold:   4,
	})
	return &harness{orch: orch, store: store, calls: rec}
}

func (h *harness) send(t *testing.T, text string) Reply {
	t.Helper()
	return h.orch.HandleMessage(context.Background(), "u1", text)
}

func (h *harness) session(t *testing.T) *models.InterviewSession {
	t.Helper()
	s, err := h.store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return s
}

func (h *harness) setStage(t *testing.T, stage models.Stage) {
	t.Helper()
	err := h.store.Update(context.Background(), "u1", func(s *models.InterviewSession) error {
		s.SetStage(stage)
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func assertMenu(t *testing.T, got, want *menu.Menu) {
	t.Helper()
	if got == nil || got.Prompt != want.Prompt || !reflect.DeepEqual(got.Titles(), want.Titles()) {
		t.Fatalf("menu = %+v, want %+v", got, want)
	}
}

func TestFirstContactCreatesIntroductionSession(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))

	reply := h.send(t, "bonjour")
	if reply.Text != modelAnswer {
		t.Fatalf("unexpected reply %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.Main())

	s := h.session(t)
	if s.Stage != models.StageIntroduction {
		t.Errorf("expected Introduction, got %s", s.Stage)
	}
	if s.Profile.Experience != "Débutant" || s.Profile.LanguageLevel != "Intermédiaire" || s.Profile.DigitalSkillLevel != "Faible" {
		t.Errorf("unexpected defaults %+v", s.Profile)
	}
	if len(s.History) != 2 {
		t.Errorf("expected user and assistant turns, got %d", len(s.History))
	}

	prompt := h.calls.Calls()[0].SystemPrompt
	if !strings.Contains(prompt, "Guide de test") || !strings.Contains(prompt, "phase d'INTRODUCTION") {
		t.Errorf("unexpected system prompt %q", prompt)
	}
}

func TestHomeFromEveryStage(t *testing.T) {
	for _, stage := range []models.Stage{models.StageIntroduction, models.StagePreparation, models.StageSimulation, models.StageFeedback} {
		h := newHarness(t, fakeModel("NON"))
		h.setStage(t, stage)

		reply := h.send(t, "🏠")
		if reply.Text != HomeText {
			t.Errorf("%s: unexpected text %q", stage, reply.Text)
		}
		assertMenu(t, reply.Menu, menu.Main())
		if n := len(reply.Menu.Options); n != 6 {
			t.Errorf("%s: expected 6 options, got %d", stage, n)
		}
	}
}

func TestUnrecognizedSelectionKeepsStageMenu(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))
	h.setStage(t, models.StagePreparation)

	for i := 0; i < 2; i++ {
		reply := h.send(t, "🔍 Quelque chose d'inconnu")
		if reply.Text != notUnderstoodPreparation {
			t.Fatalf("attempt %d: unexpected text %q", i, reply.Text)
		}
		assertMenu(t, reply.Menu, menu.Preparation())
	}

	h.setStage(t, models.StageSimulation)
	reply := h.send(t, "🚀 Autre")
	if reply.Text != notUnderstoodSimulation {
		t.Fatalf("unexpected text %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.Simulation())
}

func TestBackToPreparationIsNotAPreparationOption(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))
	h.setStage(t, models.StagePreparation)

	reply := h.send(t, menu.BackToPreparation)
	if reply.Text != notUnderstoodPreparation {
		t.Fatalf("unexpected text %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.Preparation())
}

func TestFullSimulationThenFeedbackUsesPreparedQuestions(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))

	h.send(t, menu.SimulateInterview)
	if s := h.session(t); s.Stage != models.StageSimulation {
		t.Fatalf("expected Simulation, got %s", s.Stage)
	}

	reply := h.send(t, menu.FullSimulation)
	if reply.Text != fullSimText {
		t.Fatalf("unexpected text %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.ReadyCheck())

	s := h.session(t)
	if n := len(s.PreparedQuestions); n < 8 {
		t.Fatalf("expected at least 8 prepared questions, got %d", n)
	}
	if s.History[len(s.History)-1].Role != models.RoleSystem {
		t.Errorf("expected configuration entry in history")
	}

	before := len(h.calls.Calls())
	reply = h.send(t, menu.ViewFeedback)
	if len(h.calls.Calls()) != before {
		t.Error("stored feedback must not call the model")
	}
	if !strings.Contains(reply.Text, "Conseils pour améliorer vos réponses") || !strings.Contains(reply.Text, modelQuestion) {
		t.Errorf("unexpected feedback %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.FeedbackFollowUp())
}

func TestFeedbackWithoutHistory(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))

	reply := h.send(t, menu.ViewFeedback)
	if reply.Text != insufficientHistory {
		t.Fatalf("unexpected text %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.Main())
}

func TestGeneratedFeedbackIsStored(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))
	err := h.store.Update(context.Background(), "u1", func(s *models.InterviewSession) error {
		for i := 0; i < 6; i++ {
			s.AddUserMessage(fmt.Sprintf("message %d", i))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	reply := h.send(t, menu.ViewFeedback)
	if reply.Text != modelAnswer {
		t.Fatalf("unexpected feedback %q", reply.Text)
	}

	s := h.session(t)
	if len(s.Feedback) != 1 {
		t.Fatalf("expected stored narrative, got %v", s.Feedback)
	}
	for k := range s.Feedback {
		if !strings.HasPrefix(k, "Bilan du ") {
			t.Errorf("unexpected key %q", k)
		}
	}
}

func TestAutoAdvance(t *testing.T) {
	h := newHarness(t, fakeModel("Oui, clairement."))

	first := h.send(t, "bonjour")
	if first.Text != modelAnswer {
		t.Fatalf("unexpected first reply %q", first.Text)
	}

	reply := h.send(t, "J'ai déjà passé des entretiens.")
	if reply.Text != TransitionText(models.StagePreparation) {
		t.Fatalf("unexpected transition %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.Preparation())
	if s := h.session(t); s.Stage != models.StagePreparation {
		t.Errorf("expected Preparation, got %s", s.Stage)
	}
}

func TestModelFailureKeepsUserTurn(t *testing.T) {
	h := newHarness(t, llm.Func(func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		return "", &llm.Error{Kind: llm.KindTimeout, Err: context.DeadlineExceeded}
	}))

	reply := h.send(t, "bonjour")
	if reply.Text != llm.FallbackReply {
		t.Fatalf("unexpected reply %q", reply.Text)
	}

	s := h.session(t)
	if len(s.History) != 1 || s.History[0].Role != models.RoleUser {
		t.Errorf("expected only the user turn, got %+v", s.History)
	}
	if len(h.calls.Calls()) != 1 {
		t.Errorf("expected no advance check after a failure, got %d calls", len(h.calls.Calls()))
	}
}

func TestPanicBecomesApology(t *testing.T) {
	h := newHarness(t, llm.Func(func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		panic("boom")
	}))

	reply := h.send(t, "bonjour")
	if reply.Text != ApologyText {
		t.Fatalf("unexpected reply %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.Main())

	// The session stays usable.
	if reply := h.send(t, "🏠"); reply.Text != HomeText {
		t.Errorf("unexpected reply after panic %q", reply.Text)
	}
}

type failingStore struct {
	storage.SessionStore
}

func (failingStore) Update(ctx context.Context, userID string, fn storage.UpdateFunc) error {
	return errors.New("store down")
}

func TestStoreErrorBecomesApology(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))
	h.orch.store = failingStore{}

	reply := h.send(t, "bonjour")
	if reply.Text != ApologyText {
		t.Fatalf("unexpected reply %q", reply.Text)
	}
}

func TestEvaluationThroughMessages(t *testing.T) {
	h := newHarness(t, llm.Func(func(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
		return "Niveau d'expérience: intermédiaire\nNiveau d'anxiété: faible\nFormat d'apprentissage: réaliste", nil
	}))

	reply := h.send(t, menu.EvaluateProfile)
	if reply.Text != evaluation.IntroText {
		t.Fatalf("unexpected intro %q", reply.Text)
	}

	reply = h.send(t, menu.StartEvaluation)
	if reply.Text != evaluation.Questions[0] {
		t.Fatalf("expected first question, got %q", reply.Text)
	}

	answers := []string{"✅ oui", "🏢 non", "peut-être", "📋 un peu", "aucun", "mal", "oui", "réaliste"}
	for _, a := range answers {
		reply = h.send(t, a)
	}

	s := h.session(t)
	for i, a := range answers {
		if got := s.Profile.VulnerabilityProfile[fmt.Sprintf("Question%d", i+1)]; got != a {
			t.Errorf("Question%d = %q, want %q", i+1, got, a)
		}
	}
	if !s.Profile.IsProfileEvaluated || s.Profile.CurrentState != models.StateMenu {
		t.Errorf("unexpected profile %+v", s.Profile)
	}
	if s.Profile.LearningPreference != "réaliste" || s.Profile.SpecificNeeds != classifier.FallbackValue {
		t.Errorf("analysis not applied %+v", s.Profile)
	}
	if len(s.History) != 0 {
		t.Errorf("questionnaire answers must stay out of the interview history")
	}

	reply = h.send(t, menu.SimulateInterview)
	if !strings.Contains(reply.Text, "aussi réaliste que possible") {
		t.Errorf("expected adapted simulation intro, got %q", reply.Text)
	}
}

func TestHomeAbortsEvaluation(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))

	h.send(t, menu.EvaluateProfile)
	h.send(t, menu.StartEvaluation)
	h.send(t, "première réponse")
	h.send(t, menu.MainShortcut)

	s := h.session(t)
	if s.Profile.InEvaluation() {
		t.Fatal("expected evaluation aborted")
	}
	if s.Profile.VulnerabilityProfile["Question1"] != "première réponse" {
		t.Errorf("expected recorded answer kept, got %v", s.Profile.VulnerabilityProfile)
	}
}

func TestSimulationControls(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))
	h.send(t, menu.SimulateInterview)
	h.send(t, menu.ShortSimulation)

	reply := h.send(t, menu.Ready)
	if reply.Text != modelQuestion {
		t.Fatalf("expected first prepared question, got %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.SimulationResponses())

	s := h.session(t)
	if s.PreparedCursor != 1 || s.LastQuestionAdvice != modelAdvice {
		t.Errorf("unexpected cursor %d advice %q", s.PreparedCursor, s.LastQuestionAdvice)
	}

	reply = h.send(t, menu.Repeat)
	if reply.Text != repeatText+"\n\n"+modelQuestion {
		t.Errorf("unexpected repeat %q", reply.Text)
	}

	reply = h.send(t, menu.OneMinute)
	if reply.Text != pauseText {
		t.Errorf("unexpected pause %q", reply.Text)
	}

	before := len(h.calls.Calls())
	reply = h.send(t, "❓ Un indice ?")
	if reply.Text != modelAnswer || len(h.calls.Calls()) != before+1 {
		t.Errorf("expected a hint from the model, got %q", reply.Text)
	}
	hintCall := h.calls.Calls()[before]
	if !strings.Contains(hintCall.SystemPrompt, modelQuestion) {
		t.Errorf("hint prompt should quote the last question: %q", hintCall.SystemPrompt)
	}
}

func TestContinueAfterPreparedQuestionsAsksModel(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))
	h.setStage(t, models.StageSimulation)

	reply := h.send(t, menu.Continue)
	if reply.Text != modelAnswer {
		t.Fatalf("unexpected reply %q", reply.Text)
	}
	calls := h.calls.Calls()
	last := calls[len(calls)-1]
	if last.History[len(last.History)-1].Content != "Posez-moi une autre question d'entretien" {
		t.Errorf("unexpected request %+v", last.History)
	}
	if s := h.session(t); s.History[len(s.History)-1].Content != modelAnswer {
		t.Errorf("expected the question recorded in history")
	}
}

func TestStartSimulation(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))
	h.send(t, menu.SimulateInterview)

	reply := h.send(t, menu.StartSimulation)
	if reply.Text != simulationIntro+"\n\n"+modelQuestion {
		t.Fatalf("unexpected reply %q", reply.Text)
	}
	s := h.session(t)
	if s.LastQuestionAdvice != modelAdvice || len(s.History) != 2 {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestProfileUpdate(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))

	reply := h.send(t, menu.UpdateProfile)
	if reply.Text != updateProfileText {
		t.Fatalf("unexpected reply %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.ProfileUpdate())

	h.send(t, menu.FieldSector)
	reply = h.send(t, "Logistique")
	assertMenu(t, reply.Menu, menu.ProfileUpdate())

	s := h.session(t)
	if s.Profile.JobSector != "Logistique" || s.Profile.CurrentState != models.StateMenu {
		t.Errorf("unexpected profile %+v", s.Profile)
	}
	if len(h.calls.Calls()) != 0 {
		t.Error("profile update must not call the model")
	}
}

func TestWelcome(t *testing.T) {
	h := newHarness(t, fakeModel("NON"))

	reply := h.orch.Welcome(context.Background(), "u1")
	if reply.Text != WelcomeText {
		t.Fatalf("unexpected welcome %q", reply.Text)
	}
	assertMenu(t, reply.Menu, menu.Main())

	s := h.session(t)
	if len(s.History) != 1 || s.History[0].Content != WelcomeText {
		t.Errorf("expected welcome in history, got %+v", s.History)
	}
}

func TestLastQuestion(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleAssistant, Content: "Quelle est votre plus grande réussite ?"},
		{Role: models.RoleUser, Content: "Un projet"},
		{Role: models.RoleAssistant, Content: "Comment souhaitez-vous continuer ?"},
	}
	if got := LastQuestion(history); got != "Quelle est votre plus grande réussite ?" {
		t.Errorf("unexpected question %q", got)
	}
	if got := LastQuestion(nil); got != defaultLastQuestion {
		t.Errorf("unexpected default %q", got)
	}
}
