package questions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xaenox/interview-bot/internal/models"
)

// ParseFallbackTip is the advice attached when a reply lacks the expected markers.
const ParseFallbackTip = "Soyez concis et authentique dans votre réponse."

var (
	questionMarker = regexp.MustCompile(`(?i)QUESTION:`)
	adviceMarker   = regexp.MustCompile(`(?i)CONSEIL:`)
)

// ParseQuestionReply splits a "QUESTION: ... CONSEIL: ..." reply. When either marker is
// missing, or the advice marker comes first, the whole trimmed reply is the question.
func ParseQuestionReply(reply string) (question, tips string) {
	q := questionMarker.FindStringIndex(reply)
	a := adviceMarker.FindStringIndex(reply)
	if q == nil || a == nil || a[0] <= q[0] {
		return strings.TrimSpace(reply), ParseFallbackTip
	}
	return strings.TrimSpace(reply[q[1]:a[0]]), strings.TrimSpace(reply[a[1]:])
}

func questionPrompt(profile *models.UserProfile, category string, difficulty models.Difficulty) string {
	vulnerability := ""
	if profile.IsProfileEvaluated {
		vulnerability = fmt.Sprintf(`
Profil de vulnérabilité:
- Niveau d'expérience en entretien: %s
- Niveau d'anxiété: %s
- Format d'apprentissage préféré: %s
- Besoins spécifiques: %s`, profile.ExperienceLevel, profile.AnxietyLevel, profile.LearningPreference, profile.SpecificNeeds)
	}

	return fmt.Sprintf(`Tu es un expert en recrutement qui génère des questions d'entretien adaptées au profil du candidat.

Catégorie de question: %s
Niveau de difficulté: %s
Secteur professionnel: %s
Expérience: %s
Niveau de langue: %s
%s

Instructions:
1. Génère une question d'entretien professionnelle, réaliste et bienveillante adaptée à ce profil.
2. Pour une question de niveau 'Facile', utilise un langage simple et direct, pose une question concrète sans ambiguïté.
3. Pour une question de niveau 'Moyen', tu peux être plus nuancé mais toujours clair.
4. Pour une question de niveau 'Difficile', tu peux poser une question plus complexe ou qui demande plus de réflexion.
5. Fournis ensuite un conseil bref mais utile pour répondre à cette question.
6. Format attendu: 'QUESTION: [ta question ici] CONSEIL: [ton conseil ici]'`,
		category, difficulty, profile.JobSector, profile.Experience, profile.LanguageLevel, vulnerability)
}
