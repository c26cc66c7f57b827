package material

import (
	"errors"
	"testing"
)

func TestRampEvaluate(t *testing.T) {
	r := &Ramp{Stops: []RampStop{
		{Position: 1, Color: [4]float32{1, 0, 0, 1}},
		{Position: 0.5, Color: [4]float32{0, 1, 0, 1}},
		{Position: 0, Color: [4]float32{0, 0, 1, 0}},
	}}

	tests := []struct {
		pos  float32
		want [4]float32
	}{
		{-1, [4]float32{0, 0, 1, 0}},
		{0, [4]float32{0, 0, 1, 0}},
		{0.25, [4]float32{0, 0.5, 0.5, 0.5}},
		{0.5, [4]float32{0, 1, 0, 1}},
		{0.75, [4]float32{0.5, 0.5, 0, 1}},
		{2, [4]float32{1, 0, 0, 1}},
	}
	for _, tt := range tests {
		got := r.Evaluate(tt.pos)
		for k := range got {
			if !near(got[k], tt.want[k]) {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.pos, got, tt.want)
				break
			}
		}
	}

	if got := (&Ramp{}).Evaluate(0.5); got != ([4]float32{}) {
		t.Errorf("empty ramp = %v, want zero", got)
	}
}

func TestRampSample_ColorModes(t *testing.T) {
	tests := []struct {
		name string
		mode string
		stop [4]float32
		want [4]float32
	}{
		{"rgb passthrough", ColorModeRGB, [4]float32{0.2, 0.4, 0.6, 0.5}, [4]float32{0.2, 0.4, 0.6, 0.5}},
		{"hsv red", ColorModeHSV, [4]float32{0, 1, 1, 1}, [4]float32{1, 0, 0, 1}},
		{"hsv green", ColorModeHSV, [4]float32{1.0 / 3, 1, 1, 0.25}, [4]float32{0, 1, 0, 0.25}},
		{"hsv grey", ColorModeHSV, [4]float32{0.7, 0, 0.5, 1}, [4]float32{0.5, 0.5, 0.5, 1}},
		{"hsl blue", ColorModeHSL, [4]float32{2.0 / 3, 1, 0.5, 1}, [4]float32{0, 0, 1, 1}},
		{"hsl light red", ColorModeHSL, [4]float32{0, 1, 0.75, 1}, [4]float32{1, 0.5, 0.5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Ramp{ColorMode: tt.mode, Stops: []RampStop{{Position: 0, Color: tt.stop}}}
			samples, err := r.Sample(4)
			if err != nil {
				t.Fatalf("Sample failed: %v", err)
			}
			if len(samples) != 4 {
				t.Fatalf("got %d samples, want 4", len(samples))
			}
			for k := range tt.want {
				if !near(samples[3][k], tt.want[k]) {
					t.Fatalf("sample = %v, want %v", samples[3], tt.want)
				}
			}
		})
	}
}

func TestRampSample_Positions(t *testing.T) {
	r := &Ramp{ColorMode: ColorModeRGB, Stops: []RampStop{
		{Position: 0, Color: [4]float32{0, 0, 0, 0}},
		{Position: 1, Color: [4]float32{1, 1, 1, 1}},
	}}
	samples, err := r.Sample(4)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	// Samples sit at step/resolution, so the last one is 0.75, not 1.
	want := []float32{0, 0.25, 0.5, 0.75}
	for i, s := range samples {
		if !near(s[0], want[i]) {
			t.Errorf("sample %d = %v, want %v", i, s[0], want[i])
		}
	}
}

func TestRampSample_InvalidMode(t *testing.T) {
	r := &Ramp{ColorMode: "CMYK"}
	if _, err := r.Sample(10); !errors.Is(err, ErrInvalidColorMode) {
		t.Fatalf("got %v, want ErrInvalidColorMode", err)
	}
}
