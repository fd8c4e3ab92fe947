package common

import "testing"

func TestLevelRank(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{label: "molecular", want: 0},
		{label: "cellular", want: 1},
		{label: "tissue", want: 2},
		{label: "organ", want: 3},
		{label: "organism", want: 4},
		{label: "population", want: 5},
		{label: "", want: UnknownRank},
		{label: "Molecular", want: UnknownRank},
		{label: "subcellular", want: UnknownRank},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := LevelRank(tt.label); got != tt.want {
				t.Errorf("LevelRank(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestBiologicalLevelsAreStrictlyOrdered(t *testing.T) {
	for i, level := range BiologicalLevels {
		if level.Rank() != i {
			t.Fatalf("%s has rank %d, want %d", level, level.Rank(), i)
		}
		if !level.Valid() {
			t.Fatalf("%s should be valid", level)
		}
	}
	if UnknownRank >= LevelMolecular.Rank() {
		t.Fatalf("UnknownRank must be lower than every real rank")
	}
}

func TestEventTypeValid(t *testing.T) {
	for _, et := range EventTypes {
		if !et.Valid() {
			t.Errorf("%s should be valid", et)
		}
	}
	for _, et := range []EventType{"", "mie", "Key Event"} {
		if et.Valid() {
			t.Errorf("%q should not be valid", et)
		}
	}
}

func TestNewExtractionResultNormalisesNilSlices(t *testing.T) {
	res := NewExtractionResult(Graph{}, StatusSuccess)
	if res.Events == nil || res.Relationships == nil || res.Evidence == nil {
		t.Fatalf("expected empty, non-nil slices, got %+v", res)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("expected status success, got %s", res.Status)
	}
}

func TestGraphAppendKeepsDuplicates(t *testing.T) {
	a := Graph{Events: []KeyEvent{{ID: "1", Name: "Activation of AhR"}}}
	b := Graph{Events: []KeyEvent{{ID: "2", Name: "Activation of AhR"}}}
	a.Append(b)
	if len(a.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(a.Events))
	}
	if a.Events[0].ID != "1" || a.Events[1].ID != "2" {
		t.Fatalf("expected concatenation order, got %+v", a.Events)
	}
}
