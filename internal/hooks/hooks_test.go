package hooks

import "testing"

func TestBulletHitHandlersRunInOrderAndAccumulate(t *testing.T) {
	b := New()
	b.OnBulletHit(func(e *BulletHitEvent) { e.Damage += 5 })
	b.OnBulletHit(func(e *BulletHitEvent) { e.Pierce = true })

	out := b.FireBulletHit(BulletHitEvent{Damage: 10})
	if out.Damage != 15 {
		t.Fatalf("expected damage 15, got %v", out.Damage)
	}
	if !out.Pierce {
		t.Fatal("expected pierce forced true")
	}
}

func TestKillHandlersAllCalled(t *testing.T) {
	b := New()
	count := 0
	b.OnKill(func(KillEvent) { count++ })
	b.OnKill(func(KillEvent) { count++ })

	b.FireKill(KillEvent{KillerEID: 1, VictimEID: 2})
	if count != 2 {
		t.Fatalf("expected 2 handlers invoked, got %d", count)
	}
}

func TestResetClearsHandlers(t *testing.T) {
	b := New()
	calls := 0
	b.OnRoll(func(RollEvent) { calls++ })
	b.Reset()
	b.FireRoll(RollEvent{PlayerEID: 1})
	if calls != 0 {
		t.Fatal("Reset must clear previously registered handlers")
	}
}
