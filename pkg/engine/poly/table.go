package poly

import (
	"fmt"

	"github.com/justyntemme/synthbridge/pkg/engine"
)

// tableRow is one entry of the engine's parameter table. Rows marked
// unaddressable have no ParamID and cannot be set from outside.
type tableRow struct {
	info        engine.ParamInfo
	def         float32
	addressable bool
}

type paramDef struct {
	name  string
	label string
	kind  engine.ParamKind
	def   float32
}

var globalDefs = []paramDef{
	{"volume", "Global Volume", engine.KindFloat, 1.0},
	{"character", "Character", engine.KindFloat, 0.5},
	{"scene_mode", "Scene Mode", engine.KindInt, 0},
	{"polylimit", "Polyphony Limit", engine.KindInt, 1.0},
	{"fx_bypass", "FX Bypass", engine.KindBool, 0},
}

// sceneDefs lists every per-scene parameter, keyed by the suffix that
// follows the scene prefix in the storage name.
func sceneDefs() []paramDef {
	defs := make([]paramDef, 0, 160)

	for o := 1; o <= 3; o++ {
		defs = append(defs,
			paramDef{fmt.Sprintf("osc%d_type", o), fmt.Sprintf("Osc %d Type", o), engine.KindInt, 0},
			paramDef{fmt.Sprintf("osc%d_octave", o), fmt.Sprintf("Osc %d Octave", o), engine.KindInt, 0.5},
			paramDef{fmt.Sprintf("osc%d_pitch", o), fmt.Sprintf("Osc %d Pitch", o), engine.KindFloat, 0.5},
		)
		for p := 0; p <= 6; p++ {
			defs = append(defs, paramDef{
				fmt.Sprintf("osc%d_param%d", o, p),
				fmt.Sprintf("Osc %d Param %d", o, p),
				engine.KindFloat, 0.5,
			})
		}
		defs = append(defs,
			paramDef{fmt.Sprintf("osc%d_keytrack", o), fmt.Sprintf("Osc %d Keytrack", o), engine.KindBool, 1},
			paramDef{fmt.Sprintf("osc%d_retrigger", o), fmt.Sprintf("Osc %d Retrigger", o), engine.KindBool, 0},
		)
	}

	for _, src := range []string{"o1", "o2", "o3", "noise", "ring12", "ring23"} {
		defs = append(defs,
			paramDef{"level_" + src, "Level " + src, engine.KindFloat, levelDefault(src)},
			paramDef{"route_" + src, "Route " + src, engine.KindInt, 0.5},
			paramDef{"mute_" + src, "Mute " + src, engine.KindBool, 0},
		)
	}
	defs = append(defs, paramDef{"level_pfg", "Pre-Filter Gain", engine.KindFloat, 0.5})

	for f := 1; f <= 2; f++ {
		defs = append(defs,
			paramDef{fmt.Sprintf("filter%d_type", f), fmt.Sprintf("Filter %d Type", f), engine.KindInt, 0},
			paramDef{fmt.Sprintf("filter%d_subtype", f), fmt.Sprintf("Filter %d Subtype", f), engine.KindInt, 0},
			paramDef{fmt.Sprintf("filter%d_cutoff", f), fmt.Sprintf("Filter %d Cutoff", f), engine.KindFloat, 1.0},
			paramDef{fmt.Sprintf("filter%d_resonance", f), fmt.Sprintf("Filter %d Resonance", f), engine.KindFloat, 0},
			paramDef{fmt.Sprintf("filter%d_envmod", f), fmt.Sprintf("Filter %d EnvMod", f), engine.KindFloat, 0.5},
			paramDef{fmt.Sprintf("filter%d_keytrack", f), fmt.Sprintf("Filter %d Keytrack", f), engine.KindFloat, 0.5},
		)
	}
	defs = append(defs,
		paramDef{"f2_cf_is_offset", "Filter 2 Offset Mode", engine.KindBool, 0},
		paramDef{"f2_link_resonance", "Link Resonance", engine.KindBool, 0},
	)

	for e := 1; e <= 2; e++ {
		label := "Amp EG"
		if e == 2 {
			label = "Filter EG"
		}
		defs = append(defs,
			paramDef{fmt.Sprintf("env%d_attack", e), label + " Attack", engine.KindFloat, 0.05},
			paramDef{fmt.Sprintf("env%d_decay", e), label + " Decay", engine.KindFloat, 0.2},
			paramDef{fmt.Sprintf("env%d_sustain", e), label + " Sustain", engine.KindFloat, 0.7},
			paramDef{fmt.Sprintf("env%d_release", e), label + " Release", engine.KindFloat, 0.1},
			paramDef{fmt.Sprintf("env%d_attack_shape", e), label + " Attack Shape", engine.KindInt, 0.5},
			paramDef{fmt.Sprintf("env%d_decay_shape", e), label + " Decay Shape", engine.KindInt, 0.5},
			paramDef{fmt.Sprintf("env%d_release_shape", e), label + " Release Shape", engine.KindInt, 0.5},
			paramDef{fmt.Sprintf("env%d_mode", e), label + " Mode", engine.KindInt, 0},
		)
	}

	for l := 0; l <= 2; l++ {
		label := fmt.Sprintf("LFO %d", l+1)
		defs = append(defs,
			paramDef{fmt.Sprintf("lfo%d_shape", l), label + " Shape", engine.KindInt, 0},
			paramDef{fmt.Sprintf("lfo%d_rate", l), label + " Rate", engine.KindFloat, 0.5},
			paramDef{fmt.Sprintf("lfo%d_phase", l), label + " Phase", engine.KindFloat, 0},
			paramDef{fmt.Sprintf("lfo%d_magnitude", l), label + " Amplitude", engine.KindFloat, 1.0},
			paramDef{fmt.Sprintf("lfo%d_deform", l), label + " Deform", engine.KindFloat, 0.5},
			paramDef{fmt.Sprintf("lfo%d_trigmode", l), label + " Trigger Mode", engine.KindInt, 0},
			paramDef{fmt.Sprintf("lfo%d_unipolar", l), label + " Unipolar", engine.KindBool, 0},
			paramDef{fmt.Sprintf("lfo%d_delay", l), label + " Delay", engine.KindFloat, 0},
			paramDef{fmt.Sprintf("lfo%d_attack", l), label + " Attack", engine.KindFloat, 0},
			paramDef{fmt.Sprintf("lfo%d_hold", l), label + " Hold", engine.KindFloat, 0},
			paramDef{fmt.Sprintf("lfo%d_decay", l), label + " Decay", engine.KindFloat, 0.5},
			paramDef{fmt.Sprintf("lfo%d_sustain", l), label + " Sustain", engine.KindFloat, 1.0},
			paramDef{fmt.Sprintf("lfo%d_release", l), label + " Release", engine.KindFloat, 0.5},
		)
	}

	defs = append(defs,
		paramDef{"octave", "Scene Octave", engine.KindInt, 0.5},
		paramDef{"pitch", "Scene Pitch", engine.KindFloat, 0.5},
		paramDef{"portamento", "Portamento", engine.KindFloat, 0},
		paramDef{"polymode", "Play Mode", engine.KindInt, 0},
		paramDef{"volume", "Scene Volume", engine.KindFloat, 1.0},
		paramDef{"pan", "Pan", engine.KindFloat, 0.5},
		paramDef{"pan2", "Width", engine.KindFloat, 0.5},
		paramDef{"fm_switch", "FM Routing", engine.KindInt, 0},
		paramDef{"fm_depth", "FM Depth", engine.KindFloat, 0},
		paramDef{"drift", "Osc Drift", engine.KindFloat, 0},
		paramDef{"noisecol", "Noise Color", engine.KindFloat, 0.5},
		paramDef{"feedback", "Feedback", engine.KindFloat, 0},
		paramDef{"fb_config", "Feedback Config", engine.KindInt, 0},
		paramDef{"f_balance", "Filter Balance", engine.KindFloat, 0.5},
		paramDef{"lowcut", "Low Cut", engine.KindFloat, 0},
		paramDef{"ws_type", "Waveshaper Type", engine.KindInt, 0},
		paramDef{"ws_drive", "Waveshaper Drive", engine.KindFloat, 0},
		paramDef{"vca_level", "VCA Gain", engine.KindFloat, 0.5},
		paramDef{"vca_velsense", "Velocity Sensitivity", engine.KindFloat, 0.5},
		paramDef{"pbrange_up", "Bend Range Up", engine.KindInt, 0.5},
		paramDef{"pbrange_dn", "Bend Range Down", engine.KindInt, 0.5},
		paramDef{"send_fx_1", "Send FX 1", engine.KindFloat, 0},
		paramDef{"send_fx_2", "Send FX 2", engine.KindFloat, 0},
		paramDef{"send_fx_3", "Send FX 3", engine.KindFloat, 0},
		paramDef{"send_fx_4", "Send FX 4", engine.KindFloat, 0},
	)

	return defs
}

func levelDefault(src string) float32 {
	if src == "o1" {
		return 1.0
	}
	return 0
}

// buildTable assembles the full parameter table: globals first, then scene A
// and scene B with prefixed storage names. Each scene also carries two key
// range rows that are deliberately unaddressable.
func buildTable() []tableRow {
	rows := make([]tableRow, 0, 320)

	for _, d := range globalDefs {
		rows = append(rows, tableRow{
			info: engine.ParamInfo{
				StorageName: d.name,
				FullName:    d.label,
				Scene:       engine.SceneGlobal,
				Kind:        d.kind,
			},
			def:         d.def,
			addressable: true,
		})
	}

	scenes := []struct {
		scene  int
		prefix string
	}{
		{engine.SceneA, "a_"},
		{engine.SceneB, "b_"},
	}
	for _, sc := range scenes {
		scene, prefix := sc.scene, sc.prefix
		for _, d := range sceneDefs() {
			rows = append(rows, tableRow{
				info: engine.ParamInfo{
					StorageName: prefix + d.name,
					FullName:    d.label,
					Scene:       scene,
					Kind:        d.kind,
				},
				def:         d.def,
				addressable: true,
			})
		}
		rows = append(rows,
			tableRow{
				info: engine.ParamInfo{
					StorageName: prefix + "keyrange_low",
					FullName:    "Key Range Low",
					Scene:       scene,
					Kind:        engine.KindInt,
				},
				def: 0,
			},
			tableRow{
				info: engine.ParamInfo{
					StorageName: prefix + "keyrange_high",
					FullName:    "Key Range High",
					Scene:       scene,
					Kind:        engine.KindInt,
				},
				def: 1,
			},
		)
	}

	return rows
}
