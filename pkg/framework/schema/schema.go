// Package schema derives the two documents describing the bridge's
// parameter surface: a fixed navigation hierarchy for menu traversal and a
// flat list of addressable parameters. Both are built as in-memory trees
// and serialized wholesale; consumers treat each document as a complete
// snapshot, so partial updates are never produced.
package schema

import (
	"encoding/json"

	"github.com/justyntemme/synthbridge/pkg/engine"
	"github.com/justyntemme/synthbridge/pkg/framework/param"
)

// Level is one node of the navigation hierarchy. Params holds either plain
// key strings or child-level references, matching the host's menu format.
type Level struct {
	ListParam  string   `json:"list_param,omitempty"`
	CountParam string   `json:"count_param,omitempty"`
	NameParam  string   `json:"name_param,omitempty"`
	Children   *string  `json:"children"`
	Knobs      []string `json:"knobs"`
	Params     []any    `json:"params"`
}

// ChildRef points a menu row at a deeper level.
type ChildRef struct {
	Level string `json:"level"`
	Label string `json:"label"`
}

// Hierarchy is the navigation tree document.
type Hierarchy struct {
	Modes  any              `json:"modes"`
	Levels map[string]Level `json:"levels"`
}

// ParamDesc is one row of the flat parameter list.
type ParamDesc struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

var mainKnobs = []string{
	"filter1_cutoff", "filter1_resonance", "filter1_envmod",
	"env1_attack", "env1_decay", "env1_sustain", "env1_release", "volume",
}

func keys(ss ...string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func childless() *string { return nil }

func child(name string) *string { return &name }

func oscLevel(n string) Level {
	return Level{
		Children: childless(),
		Knobs: []string{
			"osc" + n + "_type", "osc" + n + "_pitch", "osc" + n + "_param0", "osc" + n + "_param1",
			"osc" + n + "_param2", "osc" + n + "_param3", "osc" + n + "_param4", "osc" + n + "_param5",
		},
		Params: keys(
			"osc"+n+"_type", "osc"+n+"_octave", "osc"+n+"_pitch",
			"osc"+n+"_param0", "osc"+n+"_param1", "osc"+n+"_param2",
			"osc"+n+"_param3", "osc"+n+"_param4", "osc"+n+"_param5", "osc"+n+"_param6",
			"osc"+n+"_keytrack", "osc"+n+"_retrigger",
		),
	}
}

func filterLevel(n string) Level {
	l := Level{
		Children: childless(),
		Knobs: []string{
			"filter" + n + "_type", "filter" + n + "_cutoff", "filter" + n + "_resonance",
			"filter" + n + "_envmod", "filter" + n + "_keytrack", "filter" + n + "_subtype",
		},
		Params: keys(
			"filter"+n+"_type", "filter"+n+"_subtype", "filter"+n+"_cutoff",
			"filter"+n+"_resonance", "filter"+n+"_envmod", "filter"+n+"_keytrack",
		),
	}
	if n == "2" {
		l.Params = append(l.Params, "f2_cf_is_offset", "f2_link_resonance")
	}
	return l
}

func envLevel(n string) Level {
	return Level{
		Children: childless(),
		Knobs: []string{
			"env" + n + "_attack", "env" + n + "_decay", "env" + n + "_sustain", "env" + n + "_release",
			"env" + n + "_attack_shape", "env" + n + "_decay_shape", "env" + n + "_release_shape", "env" + n + "_mode",
		},
		Params: keys(
			"env"+n+"_attack", "env"+n+"_decay", "env"+n+"_sustain", "env"+n+"_release",
			"env"+n+"_attack_shape", "env"+n+"_decay_shape", "env"+n+"_release_shape", "env"+n+"_mode",
		),
	}
}

func lfoLevel(n string) Level {
	return Level{
		Children: childless(),
		Knobs: []string{
			"lfo" + n + "_shape", "lfo" + n + "_rate", "lfo" + n + "_magnitude", "lfo" + n + "_deform",
			"lfo" + n + "_phase", "lfo" + n + "_delay", "lfo" + n + "_attack", "lfo" + n + "_decay",
		},
		Params: keys(
			"lfo"+n+"_shape", "lfo"+n+"_rate", "lfo"+n+"_phase", "lfo"+n+"_magnitude",
			"lfo"+n+"_deform", "lfo"+n+"_trigmode", "lfo"+n+"_unipolar",
			"lfo"+n+"_delay", "lfo"+n+"_attack", "lfo"+n+"_hold",
			"lfo"+n+"_decay", "lfo"+n+"_sustain", "lfo"+n+"_release",
		),
	}
}

// BuildHierarchy serializes the fixed navigation tree. Its shape does not
// depend on the registry; keys it references that are missing from the
// current registry are tolerated by consumers as no-ops.
func BuildHierarchy() ([]byte, error) {
	h := Hierarchy{
		Levels: map[string]Level{
			"root": {
				ListParam:  "preset",
				CountParam: "preset_count",
				NameParam:  "preset_name",
				Children:   child("main"),
				Knobs:      mainKnobs,
				Params:     []any{},
			},
			"main": {
				Children: childless(),
				Knobs:    mainKnobs,
				Params: []any{
					ChildRef{Level: "osc1", Label: "Oscillator 1"},
					ChildRef{Level: "osc2", Label: "Oscillator 2"},
					ChildRef{Level: "osc3", Label: "Oscillator 3"},
					ChildRef{Level: "mixer", Label: "Mixer"},
					ChildRef{Level: "filter1", Label: "Filter 1"},
					ChildRef{Level: "filter2", Label: "Filter 2"},
					ChildRef{Level: "amp_env", Label: "Amp Envelope"},
					ChildRef{Level: "filt_env", Label: "Filter Envelope"},
					ChildRef{Level: "lfo1", Label: "LFO 1"},
					ChildRef{Level: "lfo2", Label: "LFO 2"},
					ChildRef{Level: "lfo3", Label: "LFO 3"},
					ChildRef{Level: "scene", Label: "Scene"},
				},
			},
			"osc1": oscLevel("1"),
			"osc2": oscLevel("2"),
			"osc3": oscLevel("3"),
			"mixer": {
				Children: childless(),
				Knobs: []string{
					"level_o1", "level_o2", "level_o3", "level_noise",
					"level_ring12", "level_ring23", "level_pfg",
				},
				Params: keys(
					"level_o1", "level_o2", "level_o3",
					"level_noise", "level_ring12", "level_ring23", "level_pfg",
					"route_o1", "route_o2", "route_o3",
					"route_noise", "route_ring12", "route_ring23",
					"mute_o1", "mute_o2", "mute_o3",
					"mute_noise", "mute_ring12", "mute_ring23",
				),
			},
			"filter1":  filterLevel("1"),
			"filter2":  filterLevel("2"),
			"amp_env":  envLevel("1"),
			"filt_env": envLevel("2"),
			"lfo1":     lfoLevel("0"),
			"lfo2":     lfoLevel("1"),
			"lfo3":     lfoLevel("2"),
			"scene": {
				Children: childless(),
				Knobs: []string{
					"volume", "pan", "pan2", "portamento",
					"drift", "feedback", "ws_type", "ws_drive",
				},
				Params: keys(
					"octave", "pitch", "portamento", "polymode",
					"volume", "pan", "pan2",
					"fm_switch", "fm_depth", "drift", "noisecol",
					"feedback", "fb_config", "f_balance", "lowcut",
					"ws_type", "ws_drive",
					"vca_level", "vca_velsense",
					"pbrange_up", "pbrange_dn",
					"send_fx_1", "send_fx_2", "send_fx_3", "send_fx_4",
					"octave_transpose",
				),
			},
		},
	}
	return json.Marshal(h)
}

// BuildChainParams serializes the flat parameter list: the two pseudo
// parameters first, then one row per registry entry. Booleans report as
// integers.
func BuildChainParams(entries []*param.Entry) ([]byte, error) {
	descs := make([]ParamDesc, 0, len(entries)+2)
	descs = append(descs,
		ParamDesc{Key: "preset", Name: "Preset", Type: "int", Min: 0, Max: 9999},
		ParamDesc{Key: "octave_transpose", Name: "Octave", Type: "int", Min: -3, Max: 3},
	)

	for _, e := range entries {
		typ := "int"
		if e.Kind == engine.KindFloat {
			typ = "float"
		}
		descs = append(descs, ParamDesc{Key: e.Key, Name: e.DisplayName, Type: typ, Min: 0, Max: 1})
	}

	return json.Marshal(descs)
}
