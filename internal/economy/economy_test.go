package economy

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/rng"
)

func TestNearestPrefersSalesmanOnTie(t *testing.T) {
	s := New()
	s.SetLayout(0, 0, [][2]float64{{0, 0}})
	kind, _ := s.Nearest(0, 0)
	if kind != TargetSalesman {
		t.Fatalf("expected salesman preferred on tie, got %v", kind)
	}
}

func TestInteractionRequiresHoldDuration(t *testing.T) {
	var pi PlayerInteraction
	for i := 0; i < InteractHoldTicks-1; i++ {
		pi.Update(TargetSalesman, -1, true, uint32(i), false)
	}
	if pi.Ready() {
		t.Fatal("must not be ready before hold threshold")
	}
	pi.Update(TargetSalesman, -1, true, uint32(InteractHoldTicks), false)
	if !pi.Ready() {
		t.Fatal("expected ready once hold threshold reached")
	}
}

func TestInteractionResetsOnTargetChange(t *testing.T) {
	var pi PlayerInteraction
	pi.Update(TargetSalesman, -1, true, 0, false)
	pi.Update(TargetStash, 2, true, 1, false)
	if pi.HoldTicks != 1 {
		t.Fatalf("expected hold reset to 1 on target switch, got %d", pi.HoldTicks)
	}
}

func TestButtonReleaseDetectedByNewSeq(t *testing.T) {
	var pi PlayerInteraction
	pi.Update(TargetSalesman, -1, true, 0, false)
	released := pi.Update(TargetSalesman, -1, false, 1, true)
	if !released {
		t.Fatal("a new sequence arriving with button up must count as release")
	}
}

func TestBuyShovelRespectsPriceAndCap(t *testing.T) {
	gold, shovels := ShovelBasePrice-1, 0
	if BuyShovel(&gold, &shovels, 0) {
		t.Fatal("should not afford shovel")
	}
	gold = 1000
	for i := 0; i < MaxShovels; i++ {
		if !BuyShovel(&gold, &shovels, 0) {
			t.Fatalf("expected purchase %d to succeed", i)
		}
	}
	if BuyShovel(&gold, &shovels, 0) {
		t.Fatal("should not exceed MaxShovels")
	}
}

func TestOpenStashConsumesExactlyOneShovelAndIsDeterministic(t *testing.T) {
	s1 := New()
	s1.SetLayout(0, 0, [][2]float64{{10, 10}})
	shovels1 := 1
	r1, ok := s1.OpenStash(0, &shovels1, rng.New(42), 7, 100)
	if !ok {
		t.Fatal("expected successful open")
	}
	if shovels1 != 0 {
		t.Fatalf("expected exactly one shovel consumed, got %d remaining", shovels1)
	}

	s2 := New()
	s2.SetLayout(0, 0, [][2]float64{{10, 10}})
	shovels2 := 1
	r2, _ := s2.OpenStash(0, &shovels2, rng.New(42), 7, 100)

	if r1 != r2 {
		t.Fatalf("expected deterministic reward for identical (seed, stashId): %+v vs %+v", r1, r2)
	}
}

func TestOpenStashTwiceFails(t *testing.T) {
	s := New()
	s.SetLayout(0, 0, [][2]float64{{0, 0}})
	shovels := 2
	s.OpenStash(0, &shovels, rng.New(1), 1, 10)
	_, ok := s.OpenStash(0, &shovels, rng.New(1), 1, 10)
	if ok {
		t.Fatal("opening an already-opened stash must fail")
	}
}
