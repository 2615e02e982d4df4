package model

import "testing"

func TestOutcomeFromLabel(t *testing.T) {
	for _, label := range CanonicalOutcomes {
		if o := OutcomeFromLabel(label); !o.Known || o.Label != label {
			t.Errorf("expected %q to be known, got %+v", label, o)
		}
	}
	if o := OutcomeFromLabel("bilayer"); o.Known {
		t.Errorf("expected unrecognized label, got %+v", o)
	}
	if o := OutcomeFromLabel(""); o.Known {
		t.Errorf("expected empty label to be unrecognized, got %+v", o)
	}
}

func TestMaterialValid(t *testing.T) {
	for _, m := range Materials {
		if !m.Valid() {
			t.Errorf("expected %q to be valid", m)
		}
	}
	if Material("graphene").Valid() {
		t.Error("graphene is not a supported system")
	}
}
