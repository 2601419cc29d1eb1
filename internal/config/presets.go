package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

func preset(kind string, from Value, segs ...SegmentConfig) func() *Config {
	return func() *Config {
		out := make([]SegmentConfig, len(segs))
		for i, s := range segs {
			out[i] = s.clone()
		}
		return &Config{
			Engine:    DefaultEngine(),
			Animation: AnimationConfig{Kind: kind, From: from.clone(), Segments: out},
		}
	}
}

func springSeg(to Value, name string) SegmentConfig {
	return SegmentConfig{To: to, Spring: &SpringConfig{Preset: name}}
}

func tweenSeg(to Value, d time.Duration, curve string) SegmentConfig {
	return SegmentConfig{To: to, Tween: &TweenConfig{Duration: d, Easing: curve}}
}

var (
	settle   = preset(KindFloat, Num(0), springSeg(Num(1), "default"))
	bounce   = preset(KindFloat, Num(0), springSeg(Num(100), "wobbly"))
	molasses = preset(KindFloat, Num(0), springSeg(Num(100), "molasses"))
	fade     = preset(KindColor, Hex("#ffffff"), tweenSeg(Hex("#1e1e2e"), 600*time.Millisecond, "ease-out"))
	slide    = preset(KindTransform, List(0, 0, 1, 0), springSeg(List(120, 40, 1.5, 90), "gentle"))
)

var flash = preset(KindColor, Hex("#000000"), SegmentConfig{
	To:     Hex("#ff8800"),
	Spring: &SpringConfig{Preset: "stiff"},
	Loop:   "3",
})

var pulse = preset(KindFloat, Num(1), SegmentConfig{
	To:    Num(1.2),
	Tween: &TweenConfig{Duration: 400 * time.Millisecond, Easing: "sine-in-out"},
	Loop:  "infinite",
})

var chain = preset(KindVec, List(0, 0, 0),
	tweenSeg(List(10, 0, 0), 300*time.Millisecond, "cubic-out"),
	SegmentConfig{To: List(10, 10, 0), Spring: &SpringConfig{Preset: "stiff"}, Delay: 100 * time.Millisecond},
	springSeg(List(0, 0, 5), "slow"),
)

// Presets are complete animation files addressable by name. Each call
// builds a fresh copy.
var Presets = map[string]func() *Config{
	"settle":   settle,
	"bounce":   bounce,
	"molasses": molasses,
	"fade":     fade,
	"flash":    flash,
	"slide":    slide,
	"pulse":    pulse,
	"chain":    chain,
}

func GetPreset(name string) (*Config, error) {
	build, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownPreset, name, strings.Join(ListPresets(), ", "))
	}
	return build(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
