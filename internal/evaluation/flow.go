// Package evaluation runs the profile questionnaire that adapts later sessions to the user.
package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/interview-bot/internal/classifier"
	"github.com/xaenox/interview-bot/internal/journal"
	"github.com/xaenox/interview-bot/internal/menu"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

var Questions = []string{
	"Pour commencer, quel est ton niveau de familiarité avec les entretiens d'embauche ? Est-ce une expérience nouvelle pour toi ou en as-tu déjà passé ?",
	"Y a-t-il des aspects spécifiques des entretiens qui t'inquiètent le plus en ce moment ? (Par exemple : parler de toi, répondre à des questions difficiles, gérer le stress ?)",
	"As-tu déjà rencontré des obstacles ou des difficultés particulières lors de tes recherches d'emploi ou d'entretiens précédents ?",
	"Te sens-tu à l'aise pour parler de tes expériences professionnelles ou de ton parcours jusqu'à présent ? Y a-t-il des périodes que tu préférerais aborder avec prudence ?",
	"Y a-t-il des aménagements ou des besoins spécifiques dont tu aimerais que nous tenions compte pour rendre cette préparation efficace pour toi ?",
	"Comment te sens-tu généralement face à l'idée de te \"vendre\" ou de mettre en avant tes compétences et qualités ?",
	"As-tu des appréhensions concernant les questions sur d'éventuelles \"lacunes\" dans ton parcours (périodes sans emploi, changements fréquents) ?",
	"Préfères-tu t'entraîner sur des situations très concrètes et réalistes, ou plutôt des scénarios progressifs et plus simples au début ?",
}

const (
	IntroText = "Bienvenue dans l'évaluation de profil ! Je vais te poser quelques questions pour mieux comprendre tes besoins et adapter nos sessions d'entraînement. Tu peux répondre simplement et honnêtement. Prêt à commencer ?"

	completionText = "Merci pour tes réponses ! J'ai maintenant une meilleure compréhension de tes besoins. "
	adaptedText    = "J'ai adapté nos futures sessions selon ton profil."
	standardText   = "Nous allons utiliser un profil standard pour commencer."

	stageMenu       = "Menu Principal"
	stageEvaluation = "Évaluation"
)

// Analyzer turns questionnaire answers into profile attributes.
type Analyzer interface {
	AnalyzeProfile(ctx context.Context, answers []classifier.QA) (classifier.ProfileAnalysis, error)
}

// Step is what the flow shows next.
type Step struct {
	Text string
	Menu *menu.Menu
}

type Flow struct {
	analyzer Analyzer
	journal  journal.Recorder
	logger   *zap.Logger
}

func NewFlow(analyzer Analyzer, recorder journal.Recorder, logger *zap.Logger) *Flow {
	return &Flow{
		analyzer: analyzer,
		journal:  recorder,
		logger:   logger,
	}
}

func questionKey(step int) string {
	return fmt.Sprintf("Question%d", step)
}

// Start puts the profile in evaluation state and clears previous answers.
func (f *Flow) Start(profile *models.UserProfile) Step {
	f.journal.LogTransition(profile.UserID, stageMenu, stageEvaluation)

	profile.CurrentState = models.StateEvaluation
	profile.EvaluationStep = 0
	profile.VulnerabilityProfile = make(map[string]string)

	return Step{Text: IntroText, Menu: menu.EvaluationStart()}
}

// IsSkip reports whether text asks to leave the questionnaire.
func IsSkip(text string) bool {
	return strings.Contains(text, "Passer l'évaluation") || strings.Contains(text, "Passer cette étape")
}

// Advance records the answer to the current question and moves on. The step never
// exceeds the number of questions; answering the last one completes the flow.
func (f *Flow) Advance(ctx context.Context, profile *models.UserProfile, text string) Step {
	if IsSkip(text) {
		return f.complete(ctx, profile, false)
	}

	if profile.VulnerabilityProfile == nil {
		profile.VulnerabilityProfile = make(map[string]string)
	}

	step := profile.EvaluationStep
	if step <= 0 {
		profile.EvaluationStep = 1
		return Step{Text: Questions[0]}
	}

	if step > len(Questions) {
		step = len(Questions)
		profile.EvaluationStep = step
	}

	profile.VulnerabilityProfile[questionKey(step)] = text
	f.journal.LogInteraction(profile.UserID, text, "Réponse enregistrée", stageEvaluation)

	if step == len(Questions) {
		return f.complete(ctx, profile, true)
	}

	profile.EvaluationStep = step + 1
	return Step{Text: Questions[step]}
}

// Answers returns the recorded answers in question order.
func Answers(profile *models.UserProfile) []classifier.QA {
	var answers []classifier.QA
	for i, q := range Questions {
		if a, ok := profile.VulnerabilityProfile[questionKey(i+1)]; ok {
			answers = append(answers, classifier.QA{Question: q, Answer: a})
		}
	}
	return answers
}

func (f *Flow) complete(ctx context.Context, profile *models.UserProfile, analyze bool) Step {
	answers := Answers(profile)
	if analyze && len(answers) > 0 {
		f.analyze(ctx, profile, answers)
	}

	profile.CurrentState = models.StateMenu

	text := completionText
	if len(answers) > 0 {
		text += adaptedText
	} else {
		text += standardText
	}

	f.journal.LogTransition(profile.UserID, stageEvaluation, stageMenu)
	return Step{Text: text, Menu: menu.EvaluationDone()}
}

func (f *Flow) analyze(ctx context.Context, profile *models.UserProfile, answers []classifier.QA) {
	analysis, err := f.analyzer.AnalyzeProfile(ctx, answers)
	if err != nil {
		f.logger.Error("Failed to analyze profile", zap.Error(err), zap.String("user_id", profile.UserID))
		f.journal.LogError(profile.UserID, "Erreur lors de l'analyse du profil", err)
		return
	}

	profile.ExperienceLevel = analysis.ExperienceLevel
	profile.AnxietyLevel = analysis.AnxietyLevel
	profile.LearningPreference = analysis.LearningPreference
	profile.SpecificNeeds = analysis.SpecificNeeds
	profile.ProfileSummary = analysis.Summary
	profile.IsProfileEvaluated = true

	f.journal.LogInteraction(profile.UserID, "Analyse du profil",
		fmt.Sprintf("Expérience=%s, Anxiété=%s", profile.ExperienceLevel, profile.AnxietyLevel), stageEvaluation)
}
