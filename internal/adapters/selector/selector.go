// Package selector translates the model names used by the presentation adapters into core models.
// The UI and the HTTP API spell the same five choices differently; each keeps its own table.
package selector

import (
	"fmt"
	"strings"

	"github.com/mikey/spam-ensemble/internal/core"
	"golang.org/x/text/cases"
)

// Table maps adapter literals to models and back
type Table struct {
	name     string
	literals map[core.Model]string
	lookup   map[string]core.Model
}

// normalize folds case. A Caser keeps state, so each call gets its own.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func newTable(name string, literals map[core.Model]string) *Table {
	t := &Table{
		name:     name,
		literals: literals,
		lookup:   make(map[string]core.Model, len(literals)),
	}
	for m, lit := range literals {
		t.lookup[normalize(lit)] = m
	}
	return t
}

// UI holds the literals shown in the interactive form
var UI = newTable("ui", map[core.Model]string{
	core.ModelBiLSTM:                "BiLSTM",
	core.ModelReinforcementLearning: "Reinforcement Learning",
	core.ModelPULearning:            "PU Learning",
	core.ModelGANBERT:               "GAN BERT",
	core.ModelEnsemble:              "Ensemble",
})

// API holds the literals accepted by the JSON endpoint
var API = newTable("api", map[core.Model]string{
	core.ModelBiLSTM:                "bilstm",
	core.ModelReinforcementLearning: "rl",
	core.ModelPULearning:            "pu",
	core.ModelGANBERT:               "gan",
	core.ModelEnsemble:              "ensemble",
})

// Parse resolves a literal of this table. Case is ignored.
func (t *Table) Parse(s string) (core.Model, error) {
	m, ok := t.lookup[normalize(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a known %s model name", core.ErrInvalidSelector, s, t.name)
	}
	return m, nil
}

// Literal returns the spelling of m in this table
func (t *Table) Literal(m core.Model) string {
	return t.literals[m]
}

// Choices lists the literals of this table in canonical model order, ensemble last
func (t *Table) Choices() []string {
	out := make([]string, 0, len(t.literals))
	for _, m := range append(append([]core.Model{}, core.IndividualModels...), core.ModelEnsemble) {
		out = append(out, t.literals[m])
	}
	return out
}

// Any accepts either spelling. It is used by the command line and the mail filter configuration.
func Any(s string) (core.Model, error) {
	if m, err := API.Parse(s); err == nil {
		return m, nil
	}
	return UI.Parse(s)
}
