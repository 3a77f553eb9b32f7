package dialog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xaenox/interview-bot/internal/evaluation"
	"github.com/xaenox/interview-bot/internal/journal"
	"github.com/xaenox/interview-bot/internal/llm"
	"github.com/xaenox/interview-bot/internal/menu"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

const (
	HomeText = "Voici le menu principal :"

	notUnderstoodMain        = "Je n'ai pas compris votre sélection. Voici le menu principal :"
	notUnderstoodPreparation = "Je n'ai pas compris votre sélection. Voici les options de préparation :"
	notUnderstoodSimulation  = "Je n'ai pas compris votre sélection. Voici les options de simulation :"

	insufficientHistory = "Vous n'avez pas encore assez d'historique pour un feedback détaillé. Essayez d'abord une simulation d'entretien !"
	updateProfileText   = "Mettons à jour votre profil. Qu'aimeriez-vous modifier ?"
	prepareAnswersText  = "Préparons vos réponses aux questions typiques. Quel type de question souhaitez-vous préparer ?"
	themeText           = "Quel aspect spécifique de l'entretien souhaitez-vous simuler ?"
	shortSimText        = "Parfait, nous allons faire une simulation courte de 3 questions adaptées à votre profil. Prêt à commencer ?"
	fullSimText         = "Nous allons faire une simulation complète de 8 questions adaptées à votre profil. Prenez votre temps pour répondre. Prêt à commencer ?"
	simulationIntro     = "Je vais maintenant jouer le rôle d'un recruteur pour une simulation d'entretien. Je vais vous poser des questions et vous donner un feedback sur vos réponses. Commençons !"
	pauseText           = "Simulation en pause. Prenez votre temps et cliquez sur 'Continuer' quand vous serez prêt à reprendre."
	repeatText          = "Voici à nouveau la question:"
	defaultLastQuestion = "Pourriez-vous me parler de votre expérience professionnelle ?"

	shortSimCount       = 3
	fullSimCount        = 8
	nextQuestionContext = 5
)

// Reply is the text shown to the user and the menu offered after it.
type Reply struct {
	Text string
	Menu *menu.Menu
}

// QuestionSource supplies adapted interview questions.
type QuestionSource interface {
	GetAdaptedQuestion(ctx context.Context, profile *models.UserProfile, category string) models.InterviewQuestion
	GenerateSequence(ctx context.Context, profile *models.UserProfile, count int) []models.InterviewQuestion
}

// Dispatcher answers menu selections for one session at a time.
type Dispatcher struct {
	llm        llm.Completer
	questions  QuestionSource
	evaluation *evaluation.Flow
	journal    journal.Recorder
	logger     *zap.Logger
	now        func() time.Time
}

func NewDispatcher(completer llm.Completer, questions QuestionSource, flow *evaluation.Flow, recorder journal.Recorder, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		llm:        completer,
		questions:  questions,
		evaluation: flow,
		journal:    recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// ask sends a single user request with a system prompt and falls back on failure.
func (d *Dispatcher) ask(ctx context.Context, userID, request, prompt string) string {
	reply, err := d.llm.Complete(ctx, []models.Message{{Role: models.RoleUser, Content: request}}, prompt)
	if err != nil {
		d.logger.Error("Failed to get completion",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("kind", string(llm.KindOf(err))))
	}
	return llm.ReplyOrFallback(reply, err)
}

func (d *Dispatcher) moveTo(session *models.InterviewSession, stage models.Stage) {
	prev := session.SetStage(stage)
	d.journal.LogTransition(session.Profile.UserID, prev.String(), stage.String())
}

// MainMenu handles a main menu selection.
func (d *Dispatcher) MainMenu(ctx context.Context, selection string, session *models.InterviewSession) Reply {
	profile := session.Profile

	switch selection {
	case menu.EvaluateProfile:
		step := d.evaluation.Start(profile)
		return Reply{Text: step.Text, Menu: step.Menu}

	case menu.StartPreparation:
		d.moveTo(session, models.StagePreparation)
		text := "Préparons-nous pour votre entretien ! "
		if profile.IsProfileEvaluated {
			if containsFold(profile.AnxietyLevel, "élevé") {
				text += "Ne vous inquiétez pas, nous allons procéder étape par étape, à votre rythme. "
			}
			if containsFold(profile.ExperienceLevel, "débutant") {
				text += "Nous commencerons par les bases pour vous mettre en confiance. "
			}
		}
		return Reply{Text: text + "Voici quelques options pour vous aider :", Menu: menu.Preparation()}

	case menu.SimulateInterview:
		d.moveTo(session, models.StageSimulation)
		text := "C'est parti pour une simulation d'entretien ! "
		if profile.IsProfileEvaluated {
			switch {
			case containsFold(profile.LearningPreference, "progressif"):
				text += "Je vous propose de commencer par une simulation progressive avec des questions de difficulté croissante. "
			case containsFold(profile.LearningPreference, "réaliste"):
				text += "Nous allons faire une simulation aussi réaliste que possible, pour vous préparer aux conditions réelles. "
			}
		}
		return Reply{Text: text + "Quel type de simulation souhaitez-vous ?", Menu: menu.Simulation()}

	case menu.ViewFeedback:
		d.moveTo(session, models.StageFeedback)
		stored := session.HasStoredFeedback()
		if !stored && len(session.History) <= 5 {
			return Reply{Text: insufficientHistory, Menu: menu.Main()}
		}

		feedback, err := d.GenerateFeedback(ctx, session)
		if err != nil {
			d.logger.Error("Failed to generate feedback", zap.Error(err), zap.String("user_id", profile.UserID))
			return Reply{Text: llm.FallbackReply, Menu: menu.FeedbackFollowUp()}
		}
		if !stored {
			session.SetFeedback("Bilan du "+d.now().Format("02/01/2006 15:04"), feedback)
		}
		return Reply{Text: feedback, Menu: menu.FeedbackFollowUp()}

	case menu.GeneralAdvice:
		advice := d.ask(ctx, profile.UserID,
			"Donnez-moi des conseils généraux pour réussir un entretien d'embauche.",
			generalAdvicePrompt(profile))
		return Reply{Text: advice, Menu: menu.Main()}

	case menu.UpdateProfile:
		return Reply{Text: updateProfileText, Menu: menu.ProfileUpdate()}

	default:
		return Reply{Text: notUnderstoodMain, Menu: menu.Main()}
	}
}

// PreparationMenu handles a selection among the preparation options.
func (d *Dispatcher) PreparationMenu(ctx context.Context, selection string, session *models.InterviewSession) Reply {
	profile := session.Profile

	switch selection {
	case menu.ResearchCompany:
		text := d.ask(ctx, profile.UserID,
			"Comment rechercher efficacement des informations sur une entreprise avant un entretien ?",
			researchPrompt)
		return Reply{Text: text, Menu: menu.ResearchFollowUp()}

	case menu.FrequentQuestions:
		text := d.ask(ctx, profile.UserID,
			fmt.Sprintf("Quelles sont les questions fréquentes en entretien dans le secteur %s ?", profile.JobSector),
			faqPrompt(profile.JobSector))
		return Reply{Text: text, Menu: menu.FAQFollowUp()}

	case menu.PresentationTips:
		text := d.ask(ctx, profile.UserID,
			"Comment me présenter lors d'un entretien d'embauche ?",
			presentationPrompt(profile.JobSector))
		return Reply{Text: text, Menu: menu.Preparation()}

	case menu.PrepareAnswers:
		return Reply{Text: prepareAnswersText, Menu: menu.QuestionTypes()}

	case menu.BackToMain:
		return Reply{Text: HomeText, Menu: menu.Main()}

	default:
		return Reply{Text: notUnderstoodPreparation, Menu: menu.Preparation()}
	}
}

// SimulationMenu handles a selection among the simulation options.
func (d *Dispatcher) SimulationMenu(ctx context.Context, selection string, session *models.InterviewSession) Reply {
	profile := session.Profile

	switch selection {
	case menu.StartSimulation:
		session.AddBotMessage(simulationIntro)
		q := d.questions.GetAdaptedQuestion(ctx, profile, models.CategoryIntroduction)
		session.SetLastQuestionAdvice(q.Tips)
		session.AddBotMessage(q.Text)
		return Reply{Text: simulationIntro + "\n\n" + q.Text, Menu: menu.SimulationResponses()}

	case menu.ShortSimulation:
		d.prepare(ctx, session, "Configuration: simulation courte, 3-5 questions, niveau adapté: ", shortSimCount)
		return Reply{Text: shortSimText, Menu: menu.ReadyCheck()}

	case menu.FullSimulation:
		d.prepare(ctx, session, "Configuration: simulation complète, 8-10 questions, niveau adapté: ", fullSimCount)
		return Reply{Text: fullSimText, Menu: menu.ReadyCheck()}

	case menu.ThemeSimulation:
		return Reply{Text: themeText, Menu: menu.Themes()}

	case menu.BackToMain:
		return Reply{Text: HomeText, Menu: menu.Main()}

	default:
		return Reply{Text: notUnderstoodSimulation, Menu: menu.Simulation()}
	}
}

// prepare generates the whole question set before the user answers anything.
func (d *Dispatcher) prepare(ctx context.Context, session *models.InterviewSession, config string, count int) {
	session.AddMessage(models.RoleSystem, config+session.Profile.LanguageLevel)
	session.PrepareQuestions(d.questions.GenerateSequence(ctx, session.Profile, count))
}

// Control handles a simulation response control.
func (d *Dispatcher) Control(ctx context.Context, control Control, session *models.InterviewSession) Reply {
	profile := session.Profile

	switch control {
	case ControlContinue, ControlReady:
		if q, ok := session.NextPreparedQuestion(); ok {
			session.SetLastQuestionAdvice(q.Advice)
			session.AddBotMessage(q.Text)
			return Reply{Text: q.Text, Menu: menu.SimulationResponses()}
		}

		messages := append(session.RecentHistory(nextQuestionContext), models.Message{
			Role:    models.RoleUser,
			Content: "Posez-moi une autre question d'entretien",
		})
		next, err := d.llm.Complete(ctx, messages, nextQuestionPrompt(profile))
		if err != nil {
			d.logger.Error("Failed to get next question", zap.Error(err), zap.String("user_id", profile.UserID))
			return Reply{Text: llm.FallbackReply, Menu: menu.SimulationResponses()}
		}
		session.AddBotMessage(next)
		return Reply{Text: next, Menu: menu.SimulationResponses()}

	case ControlPause:
		return Reply{Text: pauseText, Menu: menu.SimulationResponses()}

	case ControlHint:
		question := LastQuestion(session.History)
		hint := d.ask(ctx, profile.UserID,
			fmt.Sprintf("Comment répondre à cette question d'entretien: %s ?", question),
			hintPrompt(question))
		return Reply{Text: hint, Menu: menu.SimulationResponses()}

	default:
		return Reply{Text: repeatText + "\n\n" + LastQuestion(session.History), Menu: menu.SimulationResponses()}
	}
}

var fieldNames = map[string]string{
	models.FieldJobSector:     "secteur d'activité",
	models.FieldExperience:    "niveau d'expérience",
	models.FieldLanguageLevel: "niveau de langue",
	models.FieldDigitalSkill:  "niveau de compétences numériques",
}

// ProfileField waits for the next message to become the new value of field.
func (d *Dispatcher) ProfileField(field string, session *models.InterviewSession) Reply {
	session.Profile.AwaitUpdate(field)
	return Reply{
		Text: fmt.Sprintf("Indiquez votre %s :", fieldNames[field]),
		Menu: menu.New("", menu.MainShortcut),
	}
}

// ApplyProfileField stores value into the pending field.
func (d *Dispatcher) ApplyProfileField(field, value string, session *models.InterviewSession) Reply {
	value = strings.TrimSpace(value)
	if !session.Profile.ApplyUpdate(field, value) {
		session.Profile.CurrentState = models.StateMenu
		return Reply{Text: updateProfileText, Menu: menu.ProfileUpdate()}
	}
	return Reply{
		Text: fmt.Sprintf("C'est noté, votre %s est maintenant : %s. Souhaitez-vous modifier autre chose ?", fieldNames[field], value),
		Menu: menu.ProfileUpdate(),
	}
}

// LastQuestion returns the latest assistant turn that is not a menu prompt.
func LastQuestion(history []models.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role == models.RoleAssistant &&
			!strings.Contains(m.Content, "Comment souhaitez-vous continuer") &&
			!strings.Contains(m.Content, "Menu") {
			return m.Content
		}
	}
	return defaultLastQuestion
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
