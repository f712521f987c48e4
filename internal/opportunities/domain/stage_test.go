package domain

import "testing"

func TestNextStagesTerminalStagesAreEmpty(t *testing.T) {
	for _, stage := range []Stage{StageClosedWon, StageClosedLost} {
		if next := NextStages(stage); len(next) != 0 {
			t.Fatalf("expected no transitions out of %q, got %v", stage, next)
		}
	}
}

func TestNextStagesOnHoldReentersAllOthers(t *testing.T) {
	next := NextStages(StageOnHold)
	if len(next) != 6 {
		t.Fatalf("expected 6 re-entry stages from On Hold, got %d: %v", len(next), next)
	}

	seen := map[Stage]int{}
	for _, stage := range next {
		seen[stage]++
	}
	for _, stage := range AllStages {
		if stage == StageOnHold {
			if seen[stage] != 0 {
				t.Fatalf("On Hold must not transition to itself")
			}
			continue
		}
		if seen[stage] != 1 {
			t.Fatalf("expected %q exactly once from On Hold, got %d", stage, seen[stage])
		}
	}
}

func TestNextStagesWorkingStagesCarryUniversalThree(t *testing.T) {
	universal := []Stage{StageClosedWon, StageClosedLost, StageOnHold}

	for _, stage := range []Stage{StageProspecting, StageDiscovery, StageQuoteSent, StageNegotiation} {
		next := NextStages(stage)

		for _, want := range universal {
			if !contains(next, want) {
				t.Fatalf("expected %q in transitions from %q, got %v", want, stage, next)
			}
		}

		forward := 0
		for _, candidate := range next {
			if !contains(universal, candidate) {
				forward++
			}
		}
		if forward > 1 {
			t.Fatalf("expected at most one forward stage from %q, got %v", stage, next)
		}
	}
}

func TestNextStagesForwardProgression(t *testing.T) {
	cases := []struct {
		from    Stage
		forward Stage
	}{
		{StageProspecting, StageDiscovery},
		{StageDiscovery, StageQuoteSent},
		{StageQuoteSent, StageNegotiation},
	}

	for _, tc := range cases {
		if !contains(NextStages(tc.from), tc.forward) {
			t.Fatalf("expected %q to advance to %q", tc.from, tc.forward)
		}
	}

	// Negotiation is the end of the forward order: only the universal three.
	if next := NextStages(StageNegotiation); len(next) != 3 {
		t.Fatalf("expected exactly 3 transitions from Negotiation, got %v", next)
	}
}

func TestCanTransitionExhaustivePairs(t *testing.T) {
	for _, from := range AllStages {
		allowed := NextStages(from)
		for _, to := range AllStages {
			got := CanTransition(from, to)
			want := contains(allowed, to)
			if got != want {
				t.Fatalf("CanTransition(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestNextStagesNeverContainsDuplicates(t *testing.T) {
	for _, from := range AllStages {
		seen := map[Stage]bool{}
		for _, stage := range NextStages(from) {
			if seen[stage] {
				t.Fatalf("duplicate stage %q in transitions from %q", stage, from)
			}
			seen[stage] = true
		}
	}
}

func TestIsKnownCoversClosedSet(t *testing.T) {
	for _, stage := range AllStages {
		if !IsKnown(stage) {
			t.Fatalf("expected %q to be known", stage)
		}
	}
	if IsKnown(Stage("Qualified")) {
		t.Fatal("unexpected stage accepted")
	}
}

func contains(stages []Stage, target Stage) bool {
	for _, stage := range stages {
		if stage == target {
			return true
		}
	}
	return false
}
