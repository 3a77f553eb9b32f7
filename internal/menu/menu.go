// Package menu holds the button literals offered to the user and the menus built from them.
package menu

import "github.com/samber/lo"

// Option is one suggested action. Value is what the channel sends back when chosen.
type Option struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Menu is a prompt followed by suggested actions.
type Menu struct {
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// Titles lists the option titles in order.
func (m *Menu) Titles() []string {
	if m == nil {
		return nil
	}
	return lo.Map(m.Options, func(o Option, _ int) string { return o.Title })
}

// New builds a menu whose option values equal their titles.
func New(prompt string, titles ...string) *Menu {
	return &Menu{
		Prompt: prompt,
		Options: lo.Map(titles, func(t string, _ int) Option {
			return Option{Title: t, Value: t}
		}),
	}
}

// Main menu.
const (
	EvaluateProfile   = "👤 Évaluer mon profil"
	StartPreparation  = "📋 Commencer la préparation"
	SimulateInterview = "💬 Simuler un entretien"
	ViewFeedback      = "📊 Voir mon feedback"
	GeneralAdvice     = "❓ Conseils généraux"
	UpdateProfile     = "⚙️ Mettre à jour mon profil"

	MainPrompt = "📱 Menu Principal - Que souhaitez-vous faire ?"
)

// Preparation menu.
const (
	ResearchCompany   = "🔍 Rechercher l'entreprise"
	FrequentQuestions = "🗣️ Questions fréquentes"
	PresentationTips  = "👔 Conseils de présentation"
	PrepareAnswers    = "📝 Préparer mes réponses"
	BackToMain        = "🏠 Retour au menu principal"

	PreparationPrompt = "🔄 Préparation à l'entretien - Choisissez une option :"
)

// Simulation menu.
const (
	StartSimulation = "🚀 Démarrer la simulation"
	ShortSimulation = "⏱️ Simulation courte (5-10 min)"
	FullSimulation  = "⏳ Simulation complète (15-20 min)"
	ThemeSimulation = "🎮 Simulation par thème"

	SimulationPrompt = "🎬 Simulation d'entretien - Choisissez une option :"
)

// Simulation response controls.
const (
	Continue       = "✅ Continuer"
	Pause          = "⏸️ Pause"
	AskHint        = "❓ Demander un conseil"
	Repeat         = "🔄 Refaire cette question"
	ResponsePrompt = "Comment souhaitez-vous continuer ?"
)

// Follow-up buttons.
const (
	MainShortcut      = "🏠 Menu principal"
	BackToPreparation = "🔙 Retour préparation"

	SitesToVisit = "🌐 Sites à consulter"
	DataToSearch = "📊 Données à rechercher"
	TakeNotes    = "📝 Prendre des notes"

	ExperienceQuestions = "💼 Questions sur l'expérience"
	TechnicalQuestions  = "🔧 Questions techniques"
	BehavioralQuestions = "🧠 Questions comportementales"

	Introduce      = "👋 Se présenter"
	CareerPath     = "💼 Parcours professionnel"
	Strengths      = "💪 Forces et faiblesses"
	FutureProjects = "🔮 Projets futurs"

	FieldSector     = "🏢 Secteur d'activité"
	FieldExperience = "📊 Niveau d'expérience"
	FieldLanguage   = "🗣️ Niveau de langue"
	FieldDigital    = "💻 Compétences numériques"

	Ready       = "✅ Je suis prêt"
	OneMinute   = "⏱️ Donnez-moi une minute"
	AdviceFirst = "❓ Quelques conseils avant"

	ThemeOpening = "🤝 Début d'entretien"
	ThemeSalary  = "💰 Négociation salariale"
	ThemeHard    = "❓ Questions difficiles"
	ThemeTrick   = "🧠 Questions pièges"

	DetailedFeedback = "📊 Feedback détaillé"
	ImprovementTips  = "📝 Conseils d'amélioration"
	NewSimulation    = "🔄 Nouvelle simulation"
)

// Profile evaluation buttons.
const (
	StartEvaluation = "✅ Commencer l'évaluation"
	SkipEvaluation  = "⏩ Passer cette étape"
)

func Main() *Menu {
	return New(MainPrompt, EvaluateProfile, StartPreparation, SimulateInterview, ViewFeedback, GeneralAdvice, UpdateProfile)
}

func Preparation() *Menu {
	return New(PreparationPrompt, ResearchCompany, FrequentQuestions, PresentationTips, PrepareAnswers, BackToMain)
}

func Simulation() *Menu {
	return New(SimulationPrompt, StartSimulation, ShortSimulation, FullSimulation, ThemeSimulation, BackToMain)
}

func SimulationResponses() *Menu {
	return New(ResponsePrompt, Continue, Pause, AskHint, Repeat, BackToMain)
}

func ResearchFollowUp() *Menu {
	return New("Que voulez-vous faire ensuite ?", SitesToVisit, DataToSearch, TakeNotes, BackToPreparation, MainShortcut)
}

func FAQFollowUp() *Menu {
	return New("Quels types de questions vous intéressent ?", ExperienceQuestions, TechnicalQuestions, BehavioralQuestions, BackToPreparation, MainShortcut)
}

func QuestionTypes() *Menu {
	return New("Sur quel sujet voulez-vous préparer vos réponses ?", Introduce, CareerPath, Strengths, FutureProjects, MainShortcut)
}

func ProfileUpdate() *Menu {
	return New("Que souhaitez-vous mettre à jour dans votre profil ?", FieldSector, FieldExperience, FieldLanguage, FieldDigital, MainShortcut)
}

func ReadyCheck() *Menu {
	return New("Êtes-vous prêt à commencer ?", Ready, OneMinute, AdviceFirst, MainShortcut)
}

func Themes() *Menu {
	return New("Quel aspect spécifique voulez-vous simuler ?", ThemeOpening, ThemeSalary, ThemeHard, ThemeTrick, MainShortcut)
}

func FeedbackFollowUp() *Menu {
	return New("Que souhaitez-vous faire avec ce feedback ?", DetailedFeedback, ImprovementTips, NewSimulation, MainShortcut)
}

func EvaluationStart() *Menu {
	return New("", StartEvaluation, SkipEvaluation)
}

func EvaluationDone() *Menu {
	return New("", StartPreparation, SimulateInterview, GeneralAdvice)
}
