package ledger

import "time"

// LeadStatus is the lifecycle state of a captured lead.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusBooked    LeadStatus = "booked"
	StatusLost      LeadStatus = "lost"
)

// Valid reports whether s is one of the known lifecycle states.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusBooked, StatusLost:
		return true
	}
	return false
}

// Known lead sources, one per UI surface that captures inquiries.
const (
	SourceInquiryForm        = "inquiry-form"
	SourceConsultationButton = "consultation-button"
	SourceServiceInquiry     = "service-inquiry"
	SourceTourBooking        = "tour-booking"
	SourceSpotlightInquiry   = "spotlight-inquiry"
)

// LeadData carries the prospect-supplied fields. Every field is optional;
// the capturing form decides what it collects.
type LeadData struct {
	FullName      string   `json:"full_name,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	TravelDates   string   `json:"travel_dates,omitempty"`
	PartySize     string   `json:"party_size,omitempty"`
	Budget        string   `json:"budget,omitempty"`
	Accommodation string   `json:"accommodation,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// Lead is a captured prospect inquiry. ID and Timestamp are set once at
// capture time and never change; only Status is mutable afterwards.
type Lead struct {
	ID             string     `json:"id"`
	Source         string     `json:"source"`
	Timestamp      time.Time  `json:"timestamp"`
	Status         LeadStatus `json:"status"`
	PackageViewing string     `json:"package_viewing,omitempty"`
	Data           LeadData   `json:"data"`
}
