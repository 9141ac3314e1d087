package model

import "testing"

func TestItemType_IsValid(t *testing.T) {
	for _, tc := range []struct {
		typ  ItemType
		want bool
	}{
		{TypeEpic, true},
		{TypeFeature, true},
		{TypeEnhancement, true},
		{TypeBug, true},
		{TypeConcept, true},
		{TypeTask, true},
		{ItemType(""), false},
		{ItemType("chore"), false},
	} {
		if got := tc.typ.IsValid(); got != tc.want {
			t.Errorf("ItemType(%q).IsValid() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func TestItemStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status ItemStatus
		want   bool
	}{
		{StatusIdeation, true},
		{StatusDiscovery, true},
		{StatusDesign, true},
		{StatusBuild, true},
		{StatusLaunch, true},
		{StatusDone, true},
		{ItemStatus(""), false},
		{ItemStatus("archived"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("ItemStatus(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestConnectionType_IsValid(t *testing.T) {
	for _, tc := range []struct {
		typ  ConnectionType
		want bool
	}{
		{ConnDependency, true},
		{ConnBlocks, true},
		{ConnComplements, true},
		{ConnRelatesTo, true},
		{ConnEnables, true},
		{ConnConflicts, true},
		{ConnDuplicates, true},
		{ConnSupersedes, true},
		{ConnectionType(""), false},
		{ConnectionType("parent-child"), false},
	} {
		if got := tc.typ.IsValid(); got != tc.want {
			t.Errorf("ConnectionType(%q).IsValid() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func TestConnectionType_IsHardOrdering(t *testing.T) {
	for _, tc := range []struct {
		typ  ConnectionType
		want bool
	}{
		{ConnDependency, true},
		{ConnBlocks, true},
		{ConnComplements, false},
		{ConnRelatesTo, false},
		{ConnEnables, false},
		{ConnConflicts, false},
		{ConnDuplicates, false},
		{ConnSupersedes, false},
	} {
		if got := tc.typ.IsHardOrdering(); got != tc.want {
			t.Errorf("ConnectionType(%q).IsHardOrdering() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func TestWorkItem_DurationDays(t *testing.T) {
	for _, tc := range []struct {
		estimated float64
		want      float64
	}{
		{0, 1},   // unset falls back to the one-day default
		{2.5, 2.5},
		{7, 7},
	} {
		w := &WorkItem{EstimatedDays: tc.estimated}
		if got := w.DurationDays(); got != tc.want {
			t.Errorf("DurationDays() with estimate %g = %g, want %g", tc.estimated, got, tc.want)
		}
	}
}

func TestConnection_IsActive(t *testing.T) {
	active := &Connection{Status: ConnActive}
	removed := &Connection{Status: ConnRemoved}
	if !active.IsActive() {
		t.Error("active connection reported inactive")
	}
	if removed.IsActive() {
		t.Error("removed connection reported active")
	}
}

func TestFixAction_IsValid(t *testing.T) {
	for _, tc := range []struct {
		action FixAction
		want   bool
	}{
		{FixRemoveConnection, true},
		{FixReverseConnection, true},
		{FixChangeType, true},
		{FixAction(""), false},
		{FixAction("delete"), false},
	} {
		if got := tc.action.IsValid(); got != tc.want {
			t.Errorf("FixAction(%q).IsValid() = %v, want %v", tc.action, got, tc.want)
		}
	}
}
