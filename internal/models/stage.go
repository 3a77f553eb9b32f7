package models

import (
	"encoding/json"
	"fmt"
)

// Stage is a coarse phase of the interview preparation flow.
type Stage int

const (
	StageIntroduction Stage = iota
	StagePreparation
	StageSimulation
	StageFeedback
)

var stageNames = map[Stage]string{
	StageIntroduction: "Introduction",
	StagePreparation:  "Preparation",
	StageSimulation:   "Simulation",
	StageFeedback:     "Feedback",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Next returns the stage that follows s. Feedback cycles back to Preparation.
func (s Stage) Next() Stage {
	switch s {
	case StageIntroduction:
		return StagePreparation
	case StagePreparation:
		return StageSimulation
	case StageSimulation:
		return StageFeedback
	default:
		return StagePreparation
	}
}

func ParseStage(name string) (Stage, error) {
	for stage, n := range stageNames {
		if n == name {
			return stage, nil
		}
	}
	return StageIntroduction, fmt.Errorf("unknown stage %q", name)
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	stage, err := ParseStage(name)
	if err != nil {
		return err
	}
	*s = stage
	return nil
}
