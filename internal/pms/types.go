package pms

// Location is a clinic location known to the practice management
// system.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

// Service is a bookable service type (intake, follow-up, therapy).
type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Telehealth      bool   `json:"telehealth"`
}

// Practitioner is the PMS's view of a provider.
type Practitioner struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// AppointmentRequest creates an appointment in the PMS.
type AppointmentRequest struct {
	PractitionerEmail string `json:"practitionerEmail"`
	PatientEmail      string `json:"patientEmail"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	DurationMinutes   int    `json:"durationMinutes"`
	Telehealth        bool   `json:"telehealth"`
	Notes             string `json:"notes,omitempty"`
}

// AppointmentResponse is the PMS's record of a created appointment.
type AppointmentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
