package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)

	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}

	// A point on the near plane maps to NDC z = -1, far plane to +1.
	near := m.TransformPoint(Vec3{0, 0, -0.1})
	far := m.TransformPoint(Vec3{0, 0, -100})
	if abs(near.Z+1) > 1e-4 || abs(far.Z-1) > 1e-3 {
		t.Errorf("depth mapping: near %v, far %v", near.Z, far.Z)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{1, 1, 1}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	got := m.TransformPoint(eye)
	if abs(got.X) > 1e-5 || abs(got.Y) > 1e-5 || abs(got.Z) > 1e-5 {
		t.Errorf("eye in view space = %v, want origin", got)
	}

	// The look-at target lies straight ahead on -Z.
	c := m.TransformPoint(Vec3{})
	if abs(c.X) > 1e-5 || abs(c.Y) > 1e-5 || c.Z >= 0 {
		t.Errorf("center in view space = %v, want on -Z axis", c)
	}
}

func TestMulVec4(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.MulVec4(Vec4{0, 0, 0, 1})
	if got != (Vec4{1, 2, 3, 1}) {
		t.Errorf("MulVec4 = %v", got)
	}
	// Directions (w = 0) ignore translation.
	if d := m.MulVec4(Vec4{1, 0, 0, 0}); d != (Vec4{1, 0, 0, 0}) {
		t.Errorf("MulVec4 direction = %v", d)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestInverse(t *testing.T) {
	m := Perspective(Radians(75), 16.0/9.0, 0.1, 100).Mul(LookAt(Vec3{1, 1, 1}, Vec3{}, Vec3{0, 1, 0}))

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("view-projection reported singular")
	}
	got := m.Mul(inv)
	want := Identity()
	for i := range got {
		if abs(got[i]-want[i]) > 1e-4 {
			t.Fatalf("m * m^-1 = %v, want identity", got)
		}
	}
}

func TestInverseSingular(t *testing.T) {
	inv, ok := Mat4{}.Inverse()
	if ok {
		t.Fatal("zero matrix reported invertible")
	}
	if inv != Identity() {
		t.Errorf("singular inverse = %v, want identity", inv)
	}
}
