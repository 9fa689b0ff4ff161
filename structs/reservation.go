package structs

type WizardStep int

const (
	WizardStepInfo WizardStep = iota + 1
	WizardStepMenu
	WizardStepPayment
	WizardStepConfirm
)

func (s WizardStep) String() string {
	switch s {
	case WizardStepInfo:
		return "info"
	case WizardStepMenu:
		return "menu"
	case WizardStepPayment:
		return "payment"
	case WizardStepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

func (s WizardStep) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ReservationWizard is the booking flow state for one owner. Draft and ContactEmail are
// wizard-local and are dropped when the guest navigates back to the info step.
type ReservationWizard struct {
	OwnerID      string              `json:"owner_id"`
	CommandID    string              `json:"command_id"`
	RestaurantID string              `json:"restaurant_id"`
	Step         WizardStep          `json:"step"`
	Draft        *ReservationDetails `json:"draft,omitempty"`
	ContactEmail string              `json:"contact_email,omitempty"`
	Command      *Command            `json:"command,omitempty"`
}
