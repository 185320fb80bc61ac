package schema

import (
	"math"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
		alpha   float64
	}{
		{in: "#fff", alpha: 1},
		{in: "#444444", alpha: 1},
		{in: "white", alpha: 1},
		{in: " Red ", alpha: 1},
		{in: "transparent", alpha: 0},
		{in: "rgb(10, 20, 30)", alpha: 1},
		{in: "rgba(10,20,30,0.5)", alpha: 0.5},
		{in: "", wantErr: true},
		{in: "#12", wantErr: true},
		{in: "rgb(300,0,0)", wantErr: true},
		{in: "rgba(0,0,0,2)", wantErr: true},
		{in: "hsl(0,0,0)", wantErr: true},
		{in: "blurple", wantErr: true},
		{in: "rgb(nan,0,0)", wantErr: true},
		{in: "rgb(inf,0,0)", wantErr: true},
		{in: "rgba(0,0,0,nan)", wantErr: true},
		{in: "rgb(1,2,3)junk", wantErr: true},
		{in: "rgb(1,2,3", wantErr: true},
		{in: "rgb(1,2)", wantErr: true},
		{in: "rgb(1,2,3,4)", wantErr: true},
		{in: "rgba(1,2,3)", wantErr: true},
		{in: "rgb(0x10,0,0)", wantErr: true},
		{in: "rgb(1,,3)", wantErr: true},
		{in: "rgb( 1.5e1 , 2 , 3 )", alpha: 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, alpha, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && math.Abs(alpha-tt.alpha) > 1e-9 {
				t.Errorf("ParseColor(%q) alpha = %v, want %v", tt.in, alpha, tt.alpha)
			}
		})
	}
}

func TestParseColor_Channels(t *testing.T) {
	c, _, err := ParseColor("rgb(255, 0, 0)")
	if err != nil {
		t.Fatalf("ParseColor error: %v", err)
	}
	if c.Hex() != "#ff0000" {
		t.Errorf("Hex() = %s, want #ff0000", c.Hex())
	}
}

func TestToFloat64(t *testing.T) {
	for _, v := range []any{1, int64(1), int32(1), uint(1), float32(1), 1.0} {
		f, ok := ToFloat64(v)
		if !ok || f != 1 {
			t.Errorf("ToFloat64(%T) = %v, %v; want 1, true", v, f, ok)
		}
	}
	if _, ok := ToFloat64("1"); ok {
		t.Error("ToFloat64 accepted a string")
	}
}

func TestIsIntegral(t *testing.T) {
	if !IsIntegral(2.0) {
		t.Error("IsIntegral(2.0) = false")
	}
	if IsIntegral(2.5) {
		t.Error("IsIntegral(2.5) = true")
	}
	if IsIntegral(math.Inf(1)) {
		t.Error("IsIntegral(+Inf) = true")
	}
}
