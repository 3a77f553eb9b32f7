package dialog

import (
	"strings"

	"github.com/xaenox/interview-bot/internal/menu"
	"github.com/xaenox/interview-bot/internal/models"
)

// Leading glyphs of menu buttons. Variation selectors are left out so that both
// "⚙" and "⚙️" match.
const (
	glyphHome      = "\U0001F3E0"
	glyphPrepare   = "\U0001F4CB"
	glyphSimulate  = "\U0001F4AC"
	glyphFeedback  = "\U0001F4CA"
	glyphAdvice    = "\u2753"
	glyphSettings  = "\u2699"
	glyphProfile   = "\U0001F464"
	glyphResearch  = "\U0001F50D"
	glyphFAQ       = "\U0001F5E3"
	glyphDress     = "\U0001F454"
	glyphAnswers   = "\U0001F4DD"
	glyphStart     = "\U0001F680"
	glyphShort     = "\u23F1"
	glyphFull      = "\u23F3"
	glyphTheme     = "\U0001F3AE"
	glyphContinue  = "\u2705"
	glyphPause     = "\u23F8"
	glyphRepeat    = "\U0001F504"
	homeSubstring  = "Menu principal"
	backToPrepText = "Retour préparation"
)

var (
	mainGlyphs        = []string{glyphPrepare, glyphSimulate, glyphFeedback, glyphAdvice, glyphSettings, glyphProfile}
	preparationGlyphs = []string{glyphResearch, glyphFAQ, glyphDress, glyphAnswers}
	simulationGlyphs  = []string{glyphStart, glyphShort, glyphFull, glyphTheme}
)

type CommandKind int

const (
	// CmdText is free text for the model, the evaluation flow or a pending profile update.
	CmdText CommandKind = iota
	CmdHome
	CmdMain
	CmdPreparation
	CmdSimulation
	CmdControl
	CmdProfileField
)

// Control is a simulation response control.
type Control int

const (
	ControlContinue Control = iota
	ControlReady
	ControlPause
	ControlHint
	ControlRepeat
)

// Command is user input decoded once against the session stage.
type Command struct {
	Kind CommandKind
	// Selection is the literal handed to a menu dispatcher.
	Selection string
	Control   Control
	Field     string
	Text      string
}

// literals maps exact button titles that do not depend on the stage.
var literals = map[string]Command{
	menu.EvaluateProfile:   {Kind: CmdMain, Selection: menu.EvaluateProfile},
	menu.StartPreparation:  {Kind: CmdMain, Selection: menu.StartPreparation},
	menu.SimulateInterview: {Kind: CmdMain, Selection: menu.SimulateInterview},
	menu.ViewFeedback:      {Kind: CmdMain, Selection: menu.ViewFeedback},
	menu.GeneralAdvice:     {Kind: CmdMain, Selection: menu.GeneralAdvice},
	menu.UpdateProfile:     {Kind: CmdMain, Selection: menu.UpdateProfile},
	menu.NewSimulation:     {Kind: CmdMain, Selection: menu.SimulateInterview},
	menu.DetailedFeedback:  {Kind: CmdMain, Selection: menu.ViewFeedback},

	menu.Continue:    {Kind: CmdControl, Control: ControlContinue},
	menu.Pause:       {Kind: CmdControl, Control: ControlPause},
	menu.AskHint:     {Kind: CmdControl, Control: ControlHint},
	menu.Repeat:      {Kind: CmdControl, Control: ControlRepeat},
	menu.Ready:       {Kind: CmdControl, Control: ControlReady},
	menu.OneMinute:   {Kind: CmdControl, Control: ControlPause},
	menu.AdviceFirst: {Kind: CmdControl, Control: ControlHint},

	menu.FieldSector:     {Kind: CmdProfileField, Field: models.FieldJobSector},
	menu.FieldExperience: {Kind: CmdProfileField, Field: models.FieldExperience},
	menu.FieldLanguage:   {Kind: CmdProfileField, Field: models.FieldLanguageLevel},
	menu.FieldDigital:    {Kind: CmdProfileField, Field: models.FieldDigitalSkill},

	// Topic buttons go to the model as plain requests.
	menu.SitesToVisit:        {Kind: CmdText},
	menu.DataToSearch:        {Kind: CmdText},
	menu.TakeNotes:           {Kind: CmdText},
	menu.ExperienceQuestions: {Kind: CmdText},
	menu.TechnicalQuestions:  {Kind: CmdText},
	menu.BehavioralQuestions: {Kind: CmdText},
	menu.Introduce:           {Kind: CmdText},
	menu.CareerPath:          {Kind: CmdText},
	menu.Strengths:           {Kind: CmdText},
	menu.FutureProjects:      {Kind: CmdText},
	menu.ThemeOpening:        {Kind: CmdText},
	menu.ThemeSalary:         {Kind: CmdText},
	menu.ThemeHard:           {Kind: CmdText},
	menu.ThemeTrick:          {Kind: CmdText},
	menu.ImprovementTips:     {Kind: CmdText},
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// Decode classifies text. Precedence, first match wins:
// home, exact button literal, main menu glyph (a ❓ during a simulation is a hint),
// preparation glyph in Preparation, simulation glyph in Simulation, response control
// glyph, free text.
func Decode(text string, stage models.Stage) Command {
	trimmed := strings.TrimSpace(text)

	if strings.Contains(trimmed, homeSubstring) || strings.HasPrefix(trimmed, glyphHome) {
		return Command{Kind: CmdHome, Text: text}
	}

	if cmd, ok := literals[trimmed]; ok {
		cmd.Text = text
		return cmd
	}

	if hasAnyPrefix(trimmed, mainGlyphs) {
		if stage == models.StageSimulation && strings.HasPrefix(trimmed, glyphAdvice) {
			return Command{Kind: CmdControl, Control: ControlHint, Text: text}
		}
		return Command{Kind: CmdMain, Selection: trimmed, Text: text}
	}

	if stage == models.StagePreparation &&
		(hasAnyPrefix(trimmed, preparationGlyphs) || strings.Contains(trimmed, backToPrepText)) {
		return Command{Kind: CmdPreparation, Selection: trimmed, Text: text}
	}

	if stage == models.StageSimulation && hasAnyPrefix(trimmed, simulationGlyphs) {
		return Command{Kind: CmdSimulation, Selection: trimmed, Text: text}
	}

	switch {
	case strings.HasPrefix(trimmed, glyphContinue):
		return Command{Kind: CmdControl, Control: ControlContinue, Text: text}
	case strings.HasPrefix(trimmed, glyphPause):
		return Command{Kind: CmdControl, Control: ControlPause, Text: text}
	case strings.HasPrefix(trimmed, glyphRepeat):
		return Command{Kind: CmdControl, Control: ControlRepeat, Text: text}
	}

	return Command{Kind: CmdText, Text: text}
}
