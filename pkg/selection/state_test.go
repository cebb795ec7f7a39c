package selection

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDrillDown(t *testing.T) {
	var s State
	if s.Level() != LevelNation {
		t.Fatalf("zero state level = %v", s.Level())
	}

	if err := s.SelectRegion("Bretagne"); err != nil {
		t.Fatalf("SelectRegion: %v", err)
	}
	if err := s.SelectDepartment("29", ""); err != nil {
		t.Fatalf("SelectDepartment: %v", err)
	}

	got := s.Snapshot()
	want := Snapshot{Level: LevelDepartment, Region: "Bretagne", DepartmentCode: "29", DepartmentName: "Finistère"}
	if got != want {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}

	s.Back()
	if got := s.Snapshot(); got.Level != LevelRegion || got.DepartmentCode != "" || got.Region != "Bretagne" {
		t.Errorf("after back from department: %+v", got)
	}
	s.Back()
	if got := s.Snapshot(); got != (Snapshot{Level: LevelNation}) {
		t.Errorf("after back from region: %+v", got)
	}
	s.Back()
	if s.Level() != LevelNation {
		t.Error("back at nation level should be a no-op")
	}
}

func TestClearRegionClearsDepartment(t *testing.T) {
	var s State
	if err := s.SelectRegion("Bretagne"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectDepartment("29", "Finistère"); err != nil {
		t.Fatal(err)
	}

	s.ClearRegion()
	got := s.Snapshot()
	if got.Region != "" || got.DepartmentCode != "" || got.DepartmentName != "" {
		t.Errorf("ClearRegion left %+v", got)
	}
}

func TestSnapshotJSONCarriesClearedFields(t *testing.T) {
	var s State
	_ = s.SelectRegion("Bretagne")
	_ = s.SelectDepartment("29", "")

	// A client decoding into its previous snapshot must see the clear.
	var prev Snapshot
	b, _ := json.Marshal(s.Snapshot())
	if err := json.Unmarshal(b, &prev); err != nil {
		t.Fatal(err)
	}
	s.ClearRegion()
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &prev); err != nil {
		t.Fatal(err)
	}
	if prev != (Snapshot{Level: LevelNation}) {
		t.Errorf("merged snapshot = %+v from %s", prev, b)
	}
}

func TestSelectRegionClearsDepartment(t *testing.T) {
	var s State
	_ = s.SelectRegion("Bretagne")
	_ = s.SelectDepartment("35", "")
	if err := s.SelectRegion("Normandie"); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot(); got.DepartmentCode != "" || got.Level != LevelRegion {
		t.Errorf("switching region kept department: %+v", got)
	}
}

func TestSelectDepartmentErrors(t *testing.T) {
	tests := []struct {
		name   string
		region string
		code   string
		want   error
	}{
		{"no region", "", "29", ErrNoRegion},
		{"other region", "Bretagne", "75", ErrOutsideRegion},
		{"empty code", "Bretagne", " ", ErrEmptyCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			if tt.region != "" {
				_ = s.SelectRegion(tt.region)
			}
			before := s.Snapshot()
			err := s.SelectDepartment(tt.code, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if s.Snapshot() != before {
				t.Errorf("failed transition changed state: %+v", s.Snapshot())
			}
		})
	}
}

func TestSelectDepartmentTolerance(t *testing.T) {
	var s State
	_ = s.SelectRegion("ile de france")
	if err := s.SelectDepartment("75", "Paris"); err != nil {
		t.Errorf("region spelling variant rejected: %v", err)
	}

	// Codes missing from the tables stay selectable.
	if err := s.SelectDepartment("980", ""); err != nil {
		t.Fatalf("unknown code rejected: %v", err)
	}
	if got := s.Snapshot().DepartmentName; got != "Département inconnu" {
		t.Errorf("unknown code name = %q", got)
	}

	if err := s.SelectDepartment("1", ""); !errors.Is(err, ErrOutsideRegion) {
		t.Errorf("padded code 01 should be outside Île-de-France, got %v", err)
	}
}

func TestModalIsOrthogonal(t *testing.T) {
	var s State
	_ = s.SelectRegion("Bretagne")
	if err := s.OpenModal(ModalRegion); err != nil {
		t.Fatal(err)
	}
	_ = s.SelectDepartment("29", "")
	if s.Snapshot().Modal != ModalRegion {
		t.Error("drilling down closed the modal")
	}
	s.CloseModal()
	if got := s.Snapshot(); got.Modal != ModalNone || got.Level != LevelDepartment {
		t.Errorf("CloseModal changed drill level: %+v", got)
	}
	if err := s.OpenModal(Modal(42)); !errors.Is(err, ErrUnknownModal) {
		t.Errorf("OpenModal(42) = %v", err)
	}
}

func TestApply(t *testing.T) {
	var s State
	steps := []struct {
		action Action
		level  Level
		modal  Modal
	}{
		{Action{Type: "select_region", Name: "Bretagne"}, LevelRegion, ModalNone},
		{Action{Type: "open_modal", Modal: "region"}, LevelRegion, ModalRegion},
		{Action{Type: "select_department", Code: "56"}, LevelDepartment, ModalRegion},
		{Action{Type: "close_modal"}, LevelDepartment, ModalNone},
		{Action{Type: "clear_department"}, LevelRegion, ModalNone},
		{Action{Type: "open_modal", Modal: "nation"}, LevelRegion, ModalNation},
		{Action{Type: "clear_region"}, LevelNation, ModalNation},
	}
	for i, st := range steps {
		if err := s.Apply(st.action); err != nil {
			t.Fatalf("step %d %s: %v", i, st.action.Type, err)
		}
		if got := s.Snapshot(); got.Level != st.level || got.Modal != st.modal {
			t.Errorf("step %d %s: level=%v modal=%v, want %v %v", i, st.action.Type, got.Level, got.Modal, st.level, st.modal)
		}
	}

	if err := s.Apply(Action{Type: "teleport"}); err == nil {
		t.Error("expected error for unknown action")
	}
	if err := s.Apply(Action{Type: "open_modal", Modal: "commune"}); !errors.Is(err, ErrUnknownModal) {
		t.Errorf("unknown modal err = %v", err)
	}
}
