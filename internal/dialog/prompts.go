package dialog

import (
	"fmt"
	"os"

	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

// MissingKnowledgeBase replaces the guide when it cannot be read.
const MissingKnowledgeBase = "Guide non disponible"

// LoadKnowledgeBase reads the hiring guide injected into every conversation prompt.
func LoadKnowledgeBase(path string, logger *zap.Logger) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to load knowledge base", zap.Error(err), zap.String("path", path))
		return MissingKnowledgeBase
	}
	return string(data)
}

func systemPrompt(stage models.Stage, profile *models.UserProfile, knowledgeBase string) string {
	base := fmt.Sprintf(`Tu es un assistant d'entretien d'embauche bienveillant et encourageant qui aide des personnes vulnérables à se préparer pour des entretiens d'embauche. 
Utilise ces informations comme base de connaissances:
%s

Profil de l'utilisateur:
- Niveau de langage: %s
- Secteur recherché: %s
- Expérience: %s
- Niveau d'aisance numérique: %s

Instructions importantes:
- Utilise un langage simple et accessible
- Sois encourageant et bienveillant, jamais critique
- Donne des exemples concrets et pratiques
- Pose une question à la fois
- Adapte le niveau de difficulté au profil de l'utilisateur
`, knowledgeBase, profile.LanguageLevel, profile.JobSector, profile.Experience, profile.DigitalSkillLevel)

	switch stage {
	case models.StageIntroduction:
		return base + `
Tu es dans la phase d'INTRODUCTION. Présente-toi comme un assistant d'entretien, explique brièvement ce qu'est un entretien d'embauche et demande à l'utilisateur s'il a déjà passé des entretiens avant. Sois chaleureux et rassurant.`
	case models.StagePreparation:
		return base + `
Tu es dans la phase de PRÉPARATION. Explique les étapes clés d'un entretien d'embauche et donne des conseils pour se préparer (rechercher l'entreprise, préparer des réponses, questions à poser, etc.).`
	case models.StageSimulation:
		return base + `
Tu es dans la phase de SIMULATION D'ENTRETIEN. Tu joues le rôle d'un recruteur. Pose des questions d'entretien adaptées au profil de l'utilisateur et au secteur qu'il recherche. Après chaque réponse de l'utilisateur, donne un feedback constructif et bienveillant.`
	case models.StageFeedback:
		return base + `
Tu es dans la phase de FEEDBACK. Résume les points forts et les points à améliorer de l'utilisateur basés sur ses réponses précédentes. Propose des conseils pratiques et des exercices pour progresser.`
	default:
		return base
	}
}

const researchPrompt = "Tu es un conseiller qui explique comment bien rechercher une entreprise avant un entretien. " +
	"Donne des conseils pratiques sur les aspects à rechercher et où trouver ces informations."

func faqPrompt(jobSector string) string {
	return "Tu es un coach spécialisé dans la préparation aux entretiens d'embauche. " +
		"Liste les 5 questions les plus fréquemment posées lors d'un entretien d'embauche " +
		fmt.Sprintf("dans le secteur %s. Pour chaque question, donne un conseil sur la façon d'y répondre efficacement.", jobSector)
}

func presentationPrompt(jobSector string) string {
	return "Tu es un conseiller en image professionnelle qui explique comment se présenter " +
		"pour un entretien d'embauche (tenue vestimentaire, langage corporel, etc.). " +
		"Donne des conseils adaptés au secteur suivant : " + jobSector
}

func generalAdvicePrompt(profile *models.UserProfile) string {
	return "Tu es un coach d'entretien d'embauche qui donne des conseils généraux pour réussir un entretien. " +
		fmt.Sprintf("Adapte tes conseils au niveau de compétence de l'utilisateur (niveau de langue: %s, ", profile.LanguageLevel) +
		fmt.Sprintf("niveau numérique: %s). Sois concret et pratique.", profile.DigitalSkillLevel)
}

func nextQuestionPrompt(profile *models.UserProfile) string {
	return "Tu es un recruteur qui pose une question d'entretien d'embauche pertinente, " +
		fmt.Sprintf("adaptée au secteur %s et au niveau d'expérience %s. ", profile.JobSector, profile.Experience) +
		"Pose uniquement la question, sans explication supplémentaire."
}

func hintPrompt(question string) string {
	return fmt.Sprintf("Tu es un coach d'entretien qui donne des conseils pour répondre à cette question: '%s'. ", question) +
		"Sois concis, concret et donne un exemple de bonne réponse."
}

func feedbackPrompt(profile *models.UserProfile) string {
	profileContext := ""
	if profile.IsProfileEvaluated {
		profileContext = fmt.Sprintf(`
Profil de vulnérabilité du candidat:
- Niveau d'expérience en entretien: %s
- Niveau d'anxiété: %s
- Format d'apprentissage préféré: %s
- Besoins spécifiques: %s

Adapte ton feedback en fonction de ce profil. Sois particulièrement bienveillant si le niveau d'anxiété est élevé,
et donne des conseils structurés et progressifs si le format d'apprentissage préféré est 'progressif'.`,
			profile.ExperienceLevel, profile.AnxietyLevel, profile.LearningPreference, profile.SpecificNeeds)
	}

	return fmt.Sprintf(`Tu es un coach d'entretien qui analyse les performances d'un candidat en entretien.
Analyse l'historique de conversation ci-dessous et fournis un feedback constructif,
en soulignant les points forts et les points à améliorer. Sois bienveillant et encourageant.
%s

Structure ton feedback en 3 parties:
1. Points forts observés
2. Axes d'amélioration
3. Conseils personnalisés pour progresser`, profileContext)
}
