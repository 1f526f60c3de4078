package conformance

import (
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// Analysis bundles every artifact computed for one machine.
type Analysis struct {
	FSM   *fsm.FSM   `json:"-"`
	Table *fsm.Table `json:"-"`

	Distinguishing    Sequence              `json:"distinguishing_sequence"`
	HasDistinguishing bool                  `json:"has_distinguishing_sequence"`
	Characterizing    *SetResult            `json:"characterizing_set"`
	Identifying       map[string]*SetResult `json:"identifying_sets"`
	Cover             *Cover                `json:"state_cover"`
	Warnings          []fsm.Warning         `json:"warnings,omitempty"`

	opts Options
}

// Analyze validates f and computes its distinguishing sequence,
// characterizing set, identifying sets and state cover.
func Analyze(f *fsm.FSM, opts Options) (*Analysis, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	table, err := fsm.Compile(f)
	if err != nil {
		return nil, err
	}
	logger := opts.logger()
	logger.Debug("analyzing machine", "name", f.Name, "states", len(f.States), "inputs", len(f.Alphabet))

	a := &Analysis{FSM: f, Table: table, Warnings: f.Analyse(), opts: opts}

	a.Distinguishing, a.HasDistinguishing, err = DistinguishingSequence(table, f.States, f.Alphabet, opts)
	if err != nil {
		return nil, err
	}
	if a.Characterizing, err = CharacterizingSet(table, f.States, f.Alphabet, opts); err != nil {
		return nil, err
	}
	if a.Identifying, err = IdentifyingSets(table, f.States, f.Alphabet, opts); err != nil {
		return nil, err
	}
	if a.Cover, err = StateCover(table, f.Initial, f.States, f.Alphabet, opts); err != nil {
		return nil, err
	}
	return a, nil
}

// Complete reports whether the cover, W and every Ws are complete.
func (a *Analysis) Complete() bool {
	if !a.Cover.Complete || !a.Characterizing.Complete {
		return false
	}
	for _, ws := range a.Identifying {
		if !ws.Complete {
			return false
		}
	}
	return true
}

// Suite assembles the suite for method from the computed artifacts, without
// repeating the searches.
func (a *Analysis) Suite(method Method, reset string) (Suite, error) {
	if err := ValidateReset(reset); err != nil {
		return nil, err
	}
	if a.opts.RequireComplete {
		if err := checkCover(a.Cover); err != nil {
			return nil, err
		}
		if err := checkSet("characterizing set", a.Characterizing); err != nil {
			return nil, err
		}
		if method == MethodWp {
			for _, s := range a.FSM.States {
				if err := checkSet("identifying set of "+s, a.Identifying[s]); err != nil {
					return nil, err
				}
			}
		}
	}

	switch method {
	case MethodW:
		return AssembleW(reset, a.Cover, a.FSM.Alphabet, a.Characterizing), nil
	case MethodWp:
		return AssembleWp(a.Table, reset, a.Cover, a.FSM.Alphabet, a.Characterizing, a.Identifying)
	}
	_, err := ParseMethod(string(method))
	return nil, err
}
