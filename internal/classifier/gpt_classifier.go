package classifier

import (
	"context"
	"fmt"

	"github.com/xaenox/interview-bot/internal/llm"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

const advanceQuestion = "Basé sur notre conversation, suis-je prêt à passer à l'étape suivante de la préparation à l'entretien?"

// GPTClassifier asks the model to classify conversations and questionnaire answers.
type GPTClassifier struct {
	llm    llm.Completer
	logger *zap.Logger
}

func NewGPTClassifier(completer llm.Completer, logger *zap.Logger) *GPTClassifier {
	return &GPTClassifier{
		llm:    completer,
		logger: logger,
	}
}

// ShouldAdvance asks whether the user is ready for the stage after current.
// A failed call answers no.
func (c *GPTClassifier) ShouldAdvance(ctx context.Context, history []models.Message, current models.Stage) bool {
	systemPrompt := fmt.Sprintf(`Tu es un assistant qui évalue si l'utilisateur est prêt à passer à la prochaine étape d'un entretien simulé.
Étape actuelle: %s
Réponds uniquement par OUI ou NON.`, current)

	messages := make([]models.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, models.Message{Role: models.RoleUser, Content: advanceQuestion})

	reply, err := c.llm.Complete(ctx, messages, systemPrompt)
	if err != nil {
		c.logger.Error("Failed to get advance classification",
			zap.Error(err),
			zap.String("stage", current.String()),
			zap.String("kind", string(llm.KindOf(err))))
		return false
	}

	return IsAffirmative(reply)
}

const analysisPrompt = "Basé sur les réponses suivantes à un questionnaire d'évaluation des besoins pour la préparation d'entretien, " +
	"identifie les principales vulnérabilités et préférences de cette personne. " +
	"Détermine: \n" +
	"1. Niveau d'expérience en entretien (débutant, intermédiaire, avancé)\n" +
	"2. Niveau d'anxiété (faible, moyen, élevé)\n" +
	"3. Besoins d'adaptation spécifiques\n" +
	"4. Format d'apprentissage préféré\n" +
	"5. Résume en une phrase le profil de cette personne"

// QA is one answered questionnaire item.
type QA struct {
	Question string
	Answer   string
}

// AnalyzeProfile sends the answered questionnaire to the model and parses its reply.
func (c *GPTClassifier) AnalyzeProfile(ctx context.Context, answers []QA) (ProfileAnalysis, error) {
	if len(answers) == 0 {
		return ProfileAnalysis{}, fmt.Errorf("no answers to analyze")
	}

	prompt := "Voici les réponses au questionnaire d'évaluation:\n\n"
	for _, qa := range answers {
		prompt += fmt.Sprintf("Question: %s\nRéponse: %s\n\n", qa.Question, qa.Answer)
	}

	reply, err := c.llm.Complete(ctx, []models.Message{{Role: models.RoleUser, Content: prompt}}, analysisPrompt)
	if err != nil {
		return ProfileAnalysis{}, fmt.Errorf("failed to analyze profile: %w", err)
	}

	return ParseProfileAnalysis(reply), nil
}
