// Package selection tracks a dashboard session's geographic drill-down and
// open statistics modal. Fields are reachable only through the mutators so
// a department selection can never outlive its region.
package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hazyhaar/vaxatlas/pkg/geo"
)

var (
	ErrEmptyRegion    = errors.New("selection: empty region name")
	ErrNoRegion       = errors.New("selection: department selected without a region")
	ErrOutsideRegion  = errors.New("selection: department is not in the selected region")
	ErrEmptyCode      = errors.New("selection: empty department code")
	ErrUnknownModal   = errors.New("selection: unknown modal")
	ErrUnknownSession = errors.New("selection: unknown session")
)

// Level is the drill-down depth.
type Level int

const (
	LevelNation Level = iota
	LevelRegion
	LevelDepartment
)

func (l Level) String() string {
	switch l {
	case LevelNation:
		return "nation"
	case LevelRegion:
		return "region"
	case LevelDepartment:
		return "department"
	default:
		return "unknown"
	}
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "nation":
		*l = LevelNation
	case "region":
		*l = LevelRegion
	case "department":
		*l = LevelDepartment
	default:
		return fmt.Errorf("selection: unknown level %q", b)
	}
	return nil
}

// Modal is the statistics panel currently open, if any.
type Modal int

const (
	ModalNone Modal = iota
	ModalRegion
	ModalDepartment
	ModalNation
)

func (m Modal) String() string {
	switch m {
	case ModalNone:
		return "none"
	case ModalRegion:
		return "region"
	case ModalDepartment:
		return "department"
	case ModalNation:
		return "nation"
	default:
		return "unknown"
	}
}

func (m Modal) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Modal) UnmarshalText(b []byte) error {
	v, err := ParseModal(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseModal maps a modal name to a Modal.
func ParseModal(s string) (Modal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ModalNone, nil
	case "region":
		return ModalRegion, nil
	case "department":
		return ModalDepartment, nil
	case "nation", "france":
		return ModalNation, nil
	default:
		return ModalNone, fmt.Errorf("%w: %q", ErrUnknownModal, s)
	}
}

// State is one session's selection. The zero value is at nation level with
// no modal open.
type State struct {
	region   string
	deptCode string
	deptName string
	modal    Modal
}

// Snapshot is a read-only copy of a State.
type Snapshot struct {
	Level          Level  `json:"level"`
	Region         string `json:"region"`
	DepartmentCode string `json:"department_code"`
	DepartmentName string `json:"department_name"`
	Modal          Modal  `json:"modal"`
}

// Level derives the drill level from the selected fields.
func (s *State) Level() Level {
	switch {
	case s.deptCode != "":
		return LevelDepartment
	case s.region != "":
		return LevelRegion
	default:
		return LevelNation
	}
}

// Snapshot returns a copy of the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Level:          s.Level(),
		Region:         s.region,
		DepartmentCode: s.deptCode,
		DepartmentName: s.deptName,
		Modal:          s.modal,
	}
}

// SelectRegion moves to region level. Any department selection is cleared.
func (s *State) SelectRegion(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyRegion
	}
	s.region = name
	s.deptCode, s.deptName = "", ""
	return nil
}

// SelectDepartment moves to department level within the selected region.
// A code known to belong to another region is rejected; codes missing from
// the reference tables are accepted. An empty name takes the table name.
func (s *State) SelectDepartment(code, name string) error {
	code = geo.PadCode(code)
	if code == "" {
		return ErrEmptyCode
	}
	if s.region == "" {
		return ErrNoRegion
	}
	if r, ok := geo.RegionOf(code); ok && !geo.SameName(r, s.region, geo.KindRegion) {
		return fmt.Errorf("%w: %s belongs to %s", ErrOutsideRegion, code, r)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = geo.DisplayName(code)
	}
	s.deptCode, s.deptName = code, name
	return nil
}

// Back retreats one drill level. At nation level it does nothing.
func (s *State) Back() {
	switch s.Level() {
	case LevelDepartment:
		s.ClearDepartment()
	case LevelRegion:
		s.ClearRegion()
	}
}

// ClearRegion returns to nation level, dropping the department too.
func (s *State) ClearRegion() {
	s.region, s.deptCode, s.deptName = "", "", ""
}

// ClearDepartment returns to region level.
func (s *State) ClearDepartment() {
	s.deptCode, s.deptName = "", ""
}

// OpenModal opens m, replacing any open modal. The drill level is untouched.
func (s *State) OpenModal(m Modal) error {
	if m < ModalNone || m > ModalNation {
		return ErrUnknownModal
	}
	s.modal = m
	return nil
}

// CloseModal closes the open modal, if any.
func (s *State) CloseModal() {
	s.modal = ModalNone
}
