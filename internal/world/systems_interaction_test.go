package world

import (
	"testing"

	"github.com/jacogrande/high-noon-sub002/internal/economy"
)

func TestSystemInteractionBuysShovelAfterHoldDuration(t *testing.T) {
	w := openWorld(t, 20, 20)
	id := w.AddPlayer("gunslinger", testTree())
	pos := w.Store.Position[id]
	w.Econ.SetLayout(pos.X, pos.Y, nil)
	w.Players[id].Gold = economy.ShovelPrice(0)

	seq := uint32(1)
	for i := 0; i < economy.InteractHoldTicks; i++ {
		w.SubmitInput(id, InputState{Seq: seq, Buttons: BtnInteract})
		seq++
		if err := SystemInteraction(w); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if w.Players[id].Shovels != 0 {
		t.Fatalf("expected no shovel bought before release, got %d", w.Players[id].Shovels)
	}

	w.SubmitInput(id, InputState{Seq: seq})
	if err := SystemInteraction(w); err != nil {
		t.Fatalf("release tick: %v", err)
	}

	if w.Players[id].Shovels != 1 {
		t.Fatalf("expected 1 shovel purchased, got %d", w.Players[id].Shovels)
	}
	if w.Players[id].Gold != 0 {
		t.Fatalf("expected gold spent, got %d", w.Players[id].Gold)
	}
	if w.Players[id].Interaction.FeedbackText != "Shovel purchased" {
		t.Fatalf("expected purchase feedback, got %q", w.Players[id].Interaction.FeedbackText)
	}
}

func TestSystemInteractionOpensStash(t *testing.T) {
	w := openWorld(t, 20, 20)
	id := w.AddPlayer("gunslinger", testTree())
	pos := w.Store.Position[id]
	// Salesman far away so Nearest resolves to the stash instead.
	w.Econ.SetLayout(pos.X+1000, pos.Y+1000, [][2]float64{{pos.X, pos.Y}})
	w.Players[id].Shovels = 1

	seq := uint32(1)
	for i := 0; i < economy.InteractHoldTicks; i++ {
		w.SubmitInput(id, InputState{Seq: seq, Buttons: BtnInteract})
		seq++
		if err := SystemInteraction(w); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	w.SubmitInput(id, InputState{Seq: seq})
	if err := SystemInteraction(w); err != nil {
		t.Fatalf("release tick: %v", err)
	}

	if !w.Econ.Stashes[0].Opened {
		t.Fatalf("expected stash opened")
	}
	if w.Players[id].Shovels != 0 {
		t.Fatalf("expected shovel consumed, got %d", w.Players[id].Shovels)
	}
	if w.Players[id].Interaction.FeedbackText != "Stash opened" {
		t.Fatalf("expected stash-opened feedback, got %q", w.Players[id].Interaction.FeedbackText)
	}
}
