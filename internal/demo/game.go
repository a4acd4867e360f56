package demo

import (
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

// GameController publishes the game state. It has no cycle body; the host
// changes the state through its methods.
type GameController struct {
	// Initial is the phase written during setup. The zero value starts the
	// robot playing.
	Initial *Phase
	Team    int

	state *rt.ContextWriter[GameState]
}

func (g *GameController) Connect(l *rt.Linker) {
	g.state = rt.WriteContext[GameState](l)
}

func (g *GameController) Setup() error {
	phase := PhasePlaying
	if g.Initial != nil {
		phase = *g.Initial
	}
	g.state.Write(func(s *GameState) {
		s.Phase = phase
		s.Team = g.Team
	})
	return nil
}

// SetPhase announces a new game phase.
func (g *GameController) SetPhase(p Phase) {
	g.state.Write(func(s *GameState) { s.Phase = p })
}

// SetPenalized penalizes or unpenalizes the robot.
func (g *GameController) SetPenalized(penalized bool) {
	g.state.Write(func(s *GameState) { s.Penalized = penalized })
}

// State returns the current game state.
func (g *GameController) State() GameState { return g.state.Get() }
