package geom

import (
	"errors"
	"math"
	"testing"
)

func TestPointDistance(t *testing.T) {
	tests := []struct {
		a, b Point
		want float64
	}{
		{Pt(1, 2, 3), Pt(1, 2, 3), 0},
		{Pt(0, 0, 0), Pt(3, 4, 0), 5},
		{Pt(3, 4, 0), Pt(0, 0, 0), 5},
	}
	for _, tt := range tests {
		if got := tt.a.DistanceTo(tt.b); got != tt.want {
			t.Errorf("%s.DistanceTo(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	// Differences are widened before squaring.
	far := Pt(math.MinInt32, 0, 0).DistanceTo(Pt(math.MaxInt32, 0, 0))
	if math.Abs(far-float64(math.MaxUint32)) > 1e-3 {
		t.Errorf("extreme distance = %v, want %v", far, float64(math.MaxUint32))
	}
}

func TestPointTranslate(t *testing.T) {
	tests := []struct {
		name string
		d    int32
		axis Axis
		want Point
	}{
		{"x", 5, AxisX, Pt(6, 2, 3)},
		{"y", -2, AxisY, Pt(1, 0, 3)},
		{"z", 0, AxisZ, Pt(1, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pt(1, 2, 3)
			if err := p.Translate(tt.d, tt.axis); err != nil {
				t.Fatalf("Translate: %v", err)
			}
			if p != tt.want {
				t.Errorf("got %s, want %s", p, tt.want)
			}
		})
	}
}

func TestPointTranslateInvalidAxis(t *testing.T) {
	p := Pt(1, 2, 3)
	if err := p.Translate(5, Axis('w')); !errors.Is(err, ErrInvalidAxis) {
		t.Fatalf("error = %v, want ErrInvalidAxis", err)
	}
	if p != Pt(1, 2, 3) {
		t.Errorf("point changed to %s", p)
	}
}

func TestPointTranslateOverflow(t *testing.T) {
	p := Pt(math.MaxInt32, 0, 0)
	if err := p.Translate(1, AxisX); !errors.Is(err, ErrOverflow) {
		t.Fatalf("error = %v, want ErrOverflow", err)
	}
	if p != Pt(math.MaxInt32, 0, 0) {
		t.Errorf("point changed to %s", p)
	}

	p = Pt(0, math.MinInt32, 0)
	if err := p.Translate(-1, AxisY); !errors.Is(err, ErrOverflow) {
		t.Errorf("error = %v, want ErrOverflow", err)
	}
}

func TestPointArithmetic(t *testing.T) {
	a, b := Pt(1, 2, 3), Pt(4, -5, 6)

	tests := []struct {
		name      string
		got, want Point
	}{
		{"add", a.Add(b), Pt(5, -3, 9)},
		{"sub", a.Sub(b), Pt(-3, 7, -3)},
		{"scale", a.Scale(3), Pt(3, 6, 9)},
		{"div truncates", b.Div(2), Pt(2, -2, 3)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
		}
	}

	if !a.Equal(Pt(1, 2, 3)) || a.Equal(b) {
		t.Error("Equal mismatch")
	}
}

func TestPointDivByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Div(0) should panic")
		}
	}()
	Pt(1, 1, 1).Div(0)
}

func TestPointString(t *testing.T) {
	if got := Pt(1, -2, 3).String(); got != "Point(1,-2,3)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Point{}).String(); got != "Point(0,0,0)" {
		t.Errorf("zero String() = %q", got)
	}
}

func TestPointCoords(t *testing.T) {
	x, y, z := Pt(7, 8, 9).Coords()
	if x != 7 || y != 8 || z != 9 {
		t.Errorf("Coords() = %d, %d, %d", x, y, z)
	}
}

func TestParseAxis(t *testing.T) {
	for in, want := range map[string]Axis{
		"x": AxisX, "Y": AxisY, ":z": AxisZ, " x ": AxisX,
	} {
		got, err := ParseAxis(in)
		if err != nil || got != want {
			t.Errorf("ParseAxis(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	for _, in := range []string{"", "w", "xy", ":"} {
		if _, err := ParseAxis(in); !errors.Is(err, ErrInvalidAxis) {
			t.Errorf("ParseAxis(%q) error = %v, want ErrInvalidAxis", in, err)
		}
	}
}

func TestAxisString(t *testing.T) {
	if got := AxisX.String(); got != "x" {
		t.Errorf("AxisX.String() = %q", got)
	}
	if got := Axis('q').String(); got != "Axis('q')" {
		t.Errorf("Axis('q').String() = %q", got)
	}
}
