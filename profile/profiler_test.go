package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_EmptyModeIsNoop(t *testing.T) {
	ctrl := Profiler{Path: t.TempDir()}.Start()
	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op", ctrl)
	}

	ctrl.Stop()
}

func TestProfiler_Start_UnknownModeIsNoop(t *testing.T) {
	ctrl := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op", ctrl)
	}

	ctrl.Stop()
}

func TestModes_Sorted(t *testing.T) {
	if modes := Modes(); !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}
}
