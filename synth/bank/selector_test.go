package bank

import "testing"

func TestUniformSelector_Range(t *testing.T) {
	s := NewUniformSelector()
	for i := 0; i < 100; i++ {
		if got := s.Pick(5); got < 0 || got >= 5 {
			t.Fatalf("Pick(5) out of range: %d", got)
		}
	}
}

func TestUniformSelector_SingleVariant(t *testing.T) {
	s := NewUniformSelector()
	if got := s.Pick(1); got != 0 {
		t.Errorf("Pick(1) = %d, want 0", got)
	}
}

func TestSeededSelector_Reproducible(t *testing.T) {
	a := NewSeededSelector(42)
	b := NewSeededSelector(42)
	for i := 0; i < 50; i++ {
		if got, want := a.Pick(7), b.Pick(7); got != want {
			t.Fatalf("pick %d diverged: %d vs %d", i, got, want)
		}
	}
}
