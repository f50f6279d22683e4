package dtos

// CheckAvailabilityRequest is the body of POST /api/check-availability, sent
// by the workflow-automation integration. Date accepts "YYYY-MM-DD" or the
// German "DD.MM.YYYY".
type CheckAvailabilityRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Duration int    `json:"duration"`
}

// CheckAvailabilityResponse keeps a stable shape for the caller: even error
// responses carry availability=false and an empty alternatives list.
type CheckAvailabilityResponse struct {
	Availability  bool     `json:"availability"`
	Alternatives  []string `json:"alternatives"`
	RequestedDate string   `json:"requested_date"`
	RequestedTime string   `json:"requested_time"`
	Error         string   `json:"error,omitempty"`
}

// VoiceAgentRequest is the body of POST /api/voice-agent-calendar. The API
// key may come in the body instead of the x-api-key header, because some
// voice platforms cannot set custom headers per tool call.
type VoiceAgentRequest struct {
	Action   string `json:"action" binding:"required,oneof=check_availability get_available_slots book_appointment"`
	ApiKey   string `json:"api_key"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

// VoiceAgentResponse carries both structured fields and German
// natural-language messages the agent can read out verbatim.
type VoiceAgentResponse struct {
	Success            bool        `json:"success"`
	Available          *bool       `json:"available,omitempty"`
	Date               string      `json:"date,omitempty"`
	AvailableSlots     []string    `json:"available_slots,omitempty"`
	AlternativeSlots   []string    `json:"alternative_slots"`
	Message            string      `json:"message"`
	AlternativeMessage string      `json:"alternative_message,omitempty"`
	Appointment        interface{} `json:"appointment,omitempty"`
}
