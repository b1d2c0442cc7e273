package usecase

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"podops/internal/core/domain"
)

// TestCascadeProperties drives the engine with arbitrary (current, target,
// force) combinations and checks the band-selection law: a band fires exactly
// when the target reaches it and the current probability has not passed it,
// and a backward move without force changes nothing.
func TestCascadeProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		current := rapid.IntRange(0, 100).Draw(rt, "current")
		target := rapid.IntRange(0, 100).Draw(rt, "target")
		force := rapid.Bool().Draw(rt, "force")

		c := draftCampaign("c1")
		c.Probability = current
		if current >= 10 {
			c.Status = domain.StatusActivePresale
		}
		f := newFixture(t, c)

		req := transitionReq("c1", target)
		req.Force = force
		res := f.engine.TransitionToStage(context.Background(), req)

		if target < current && !force {
			if res.Success {
				rt.Fatalf("backward move %d -> %d succeeded without force", current, target)
			}
			if c.Probability != current {
				rt.Fatalf("probability changed on rejected move: %d -> %d", current, c.Probability)
			}
			return
		}

		if !res.Success {
			rt.Fatalf("transition %d -> %d failed: %v", current, target, res.Errors)
		}
		if c.Probability != target {
			rt.Fatalf("persisted probability %d, want %d", c.Probability, target)
		}

		crossed := func(band int) bool { return target >= band && current < band }
		for _, tc := range []struct {
			band   int
			action domain.SideEffectAction
		}{
			{10, domain.ActionPresaleActivated},
			{35, domain.ActionScheduleValidated},
			{65, domain.ActionTalentApprovalRequest},
			{90, domain.ActionInventoryReserved},
			{100, domain.ActionOrderCreated},
		} {
			if got := res.HasSideEffect(tc.action); got != crossed(tc.band) {
				rt.Fatalf("band %d (%s): fired=%v, want %v (current=%d target=%d)",
					tc.band, tc.action, got, crossed(tc.band), current, target)
			}
		}

		// Side effects appear in ascending band order.
		order := map[domain.SideEffectAction]int{
			domain.ActionPresaleActivated:      1,
			domain.ActionScheduleValidated:     2,
			domain.ActionTalentApprovalRequest: 3,
			domain.ActionInventoryReserved:     4,
			domain.ActionOrderCreated:          5,
			domain.ActionAdRequestsCreated:     5,
		}
		last := 0
		for _, se := range res.SideEffects {
			rank, ok := order[se.Action]
			if !ok {
				continue
			}
			if rank < last {
				rt.Fatalf("side effects out of band order: %v", actions(res))
			}
			last = rank
		}
	})
}
