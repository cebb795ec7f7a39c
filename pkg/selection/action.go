package selection

import "fmt"

// Action is a named transition as sent by a front-end.
type Action struct {
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Code  string `json:"code,omitempty"`
	Modal string `json:"modal,omitempty"`
}

// Apply runs the transition named by a.Type against s.
func (s *State) Apply(a Action) error {
	switch a.Type {
	case "select_region":
		return s.SelectRegion(a.Name)
	case "select_department":
		return s.SelectDepartment(a.Code, a.Name)
	case "back":
		s.Back()
	case "clear_region":
		s.ClearRegion()
	case "clear_department":
		s.ClearDepartment()
	case "open_modal":
		m, err := ParseModal(a.Modal)
		if err != nil {
			return err
		}
		return s.OpenModal(m)
	case "close_modal":
		s.CloseModal()
	default:
		return fmt.Errorf("selection: unknown action %q", a.Type)
	}
	return nil
}
