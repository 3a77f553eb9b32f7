// Package dialog turns user messages into replies: it decodes menu selections, drives the
// interview stages and talks to the model for everything else.
package dialog

import (
	"context"
	"fmt"

	"github.com/xaenox/interview-bot/internal/evaluation"
	"github.com/xaenox/interview-bot/internal/journal"
	"github.com/xaenox/interview-bot/internal/llm"
	"github.com/xaenox/interview-bot/internal/menu"
	"github.com/xaenox/interview-bot/internal/models"
	"github.com/xaenox/interview-bot/internal/storage"
	"go.uber.org/zap"
)

const (
	ApologyText = "Désolé, j'ai rencontré un problème. Pouvez-vous réessayer?"
	WelcomeText = "Bonjour ! Je suis votre assistant virtuel pour vous aider à préparer vos entretiens d'embauche. Comment puis-je vous aider aujourd'hui ?"
)

// StageAdvisor decides whether the conversation is ready for the next stage.
type StageAdvisor interface {
	ShouldAdvance(ctx context.Context, history []models.Message, current models.Stage) bool
}

type Options struct {
	KnowledgeBase      string
	MaxContextMessages int
	AdvanceThreshold   int
}

type Orchestrator struct {
	store      storage.SessionStore
	llm        llm.Completer
	dispatcher *Dispatcher
	evaluation *evaluation.Flow
	advisor    StageAdvisor
	journal    journal.Recorder
	logger     *zap.Logger
	opts       Options
}

func NewOrchestrator(
	store storage.SessionStore,
	completer llm.Completer,
	questions QuestionSource,
	flow *evaluation.Flow,
	advisor StageAdvisor,
	recorder journal.Recorder,
	logger *zap.Logger,
	opts Options,
) *Orchestrator {
	if opts.KnowledgeBase == "" {
		opts.KnowledgeBase = MissingKnowledgeBase
	}
	if opts.AdvanceThreshold <= 0 {
		opts.AdvanceThreshold = 4
	}
	return &Orchestrator{
		store:      store,
		llm:        completer,
		dispatcher: NewDispatcher(completer, questions, flow, recorder, logger),
		evaluation: flow,
		advisor:    advisor,
		journal:    recorder,
		logger:     logger,
		opts:       opts,
	}
}

// HandleMessage processes one inbound message. It never fails: errors and panics are
// logged and turned into an apology with the main menu.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, text string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			reply = o.apologize(userID, fmt.Errorf("panic: %v", r))
		}
	}()

	var stage string
	err := o.store.Update(ctx, userID, func(session *models.InterviewSession) error {
		reply = o.handle(ctx, session, text)
		stage = session.Stage.String()
		return nil
	})
	if err != nil {
		return o.apologize(userID, err)
	}

	o.journal.LogInteraction(userID, text, reply.Text, stage)
	return reply
}

func (o *Orchestrator) apologize(userID string, err error) Reply {
	o.logger.Error("Failed to handle message", zap.Error(err), zap.String("user_id", userID))
	o.journal.LogError(userID, "Erreur lors du traitement du message", err)
	return Reply{Text: ApologyText, Menu: menu.Main()}
}

func (o *Orchestrator) handle(ctx context.Context, session *models.InterviewSession, text string) Reply {
	profile := session.Profile
	cmd := Decode(text, session.Stage)

	if cmd.Kind == CmdHome {
		if profile.InEvaluation() {
			o.journal.LogTransition(profile.UserID, "Évaluation", "Menu Principal")
		}
		profile.CurrentState = models.StateMenu
		return Reply{Text: HomeText, Menu: menu.Main()}
	}

	if profile.InEvaluation() {
		step := o.evaluation.Advance(ctx, profile, text)
		return Reply{Text: step.Text, Menu: step.Menu}
	}

	if field, ok := profile.PendingUpdate(); ok {
		if cmd.Kind == CmdText {
			return o.dispatcher.ApplyProfileField(field, text, session)
		}
		profile.CurrentState = models.StateMenu
	}

	switch cmd.Kind {
	case CmdMain:
		return o.dispatcher.MainMenu(ctx, cmd.Selection, session)
	case CmdPreparation:
		return o.dispatcher.PreparationMenu(ctx, cmd.Selection, session)
	case CmdSimulation:
		return o.dispatcher.SimulationMenu(ctx, cmd.Selection, session)
	case CmdControl:
		return o.dispatcher.Control(ctx, cmd.Control, session)
	case CmdProfileField:
		return o.dispatcher.ProfileField(cmd.Field, session)
	default:
		return o.freeText(ctx, session, text)
	}
}

// freeText sends the message to the model under the stage prompt, then asks whether the
// conversation should move to the next stage.
func (o *Orchestrator) freeText(ctx context.Context, session *models.InterviewSession, text string) Reply {
	session.AddUserMessage(text)

	prompt := systemPrompt(session.Stage, session.Profile, o.opts.KnowledgeBase)
	answer, err := o.llm.Complete(ctx, session.RecentHistory(o.opts.MaxContextMessages), prompt)
	if err != nil {
		o.logger.Error("Failed to get completion",
			zap.Error(err),
			zap.String("user_id", session.Profile.UserID),
			zap.String("kind", string(llm.KindOf(err))))
		o.journal.LogError(session.Profile.UserID, "Erreur lors de la génération de la réponse", err)
		return Reply{Text: llm.FallbackReply, Menu: StageMenu(session.Stage)}
	}
	session.AddBotMessage(answer)

	if len(session.History) >= o.opts.AdvanceThreshold &&
		o.advisor.ShouldAdvance(ctx, session.RecentHistory(o.opts.MaxContextMessages), session.Stage) {
		next := session.Stage.Next()
		prev := session.SetStage(next)
		o.journal.LogTransition(session.Profile.UserID, prev.String(), next.String())
		return Reply{Text: TransitionText(next), Menu: StageMenu(next)}
	}

	return Reply{Text: answer, Menu: StageMenu(session.Stage)}
}

// Welcome greets a user who joined the conversation.
func (o *Orchestrator) Welcome(ctx context.Context, userID string) Reply {
	err := o.store.Update(ctx, userID, func(session *models.InterviewSession) error {
		session.AddBotMessage(WelcomeText)
		return nil
	})
	if err != nil {
		return o.apologize(userID, err)
	}

	o.logger.Info("Welcomed user", zap.String("user_id", userID))
	return Reply{Text: WelcomeText, Menu: menu.Main()}
}

// StageMenu is the menu offered after a free text exchange in stage.
func StageMenu(stage models.Stage) *menu.Menu {
	switch stage {
	case models.StagePreparation:
		return menu.Preparation()
	case models.StageSimulation:
		return menu.Simulation()
	case models.StageFeedback:
		return menu.SimulationResponses()
	default:
		return menu.Main()
	}
}

func TransitionText(stage models.Stage) string {
	switch stage {
	case models.StagePreparation:
		return "Très bien ! Passons maintenant à l'étape de préparation pour votre entretien."
	case models.StageSimulation:
		return "Vous êtes prêt pour simuler un entretien ! Je vais maintenant jouer le rôle d'un recruteur et vous poser des questions."
	case models.StageFeedback:
		return "Félicitations pour cette simulation ! Passons maintenant au feedback sur votre performance."
	default:
		return "Passons à l'étape suivante."
	}
}
