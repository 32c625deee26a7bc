package model

import (
	"fmt"
	"time"
)

// BookingID identifies a row in the `bookings` table.
type BookingID uint64

// Service is one of the fixed offerings a booking can request.  The
// string values are persisted verbatim.
type Service string

const (
	ServiceBusinessAutomation Service = "Business Automation"
	ServiceECommerceWebsite   Service = "E-Commerce Website"
	ServiceSEO                Service = "SEO"
	ServiceCreativeWebDev     Service = "Creative Web Development"
	ServiceMetaAdsMarketing   Service = "Meta Ads Marketing"
	ServiceCustomTechSolution Service = "Custom Tech Solution"
)

// Services lists every offering in display order.
var Services = []Service{
	ServiceBusinessAutomation,
	ServiceECommerceWebsite,
	ServiceSEO,
	ServiceCreativeWebDev,
	ServiceMetaAdsMarketing,
	ServiceCustomTechSolution,
}

// ParseService matches s exactly against the known offerings.
func ParseService(s string) (Service, error) {
	for _, v := range Services {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown service %q", s)
}

// BookingStatus tracks how a booking progressed after the call.
type BookingStatus string

const (
	BookingPending          BookingStatus = "Pending"
	BookingAttended         BookingStatus = "Attended"
	BookingNotAttended      BookingStatus = "Not Attended"
	BookingNotSure          BookingStatus = "Not Sure"
	BookingPurchasedService BookingStatus = "Purchased Service"
	BookingNotInterested    BookingStatus = "Not Interested"
)

// BookingStatuses lists every status in workflow order.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingAttended,
	BookingNotAttended,
	BookingNotSure,
	BookingPurchasedService,
	BookingNotInterested,
}

// ParseBookingStatus matches s exactly against the known statuses.
func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, v := range BookingStatuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// Booking is a service request tied to exactly one user.
//
// Fields:
//
//	ID, UserID               – primary key and immutable owner.
//	CompanyName, Email       – who to contact.
//	Service                  – requested offering.
//	ContactNumber            – primary phone.
//	AlternativeContactNumber – optional second phone.
//	State, City, Address, Pincode – postal address.
//	Status                   – set by admins; defaults to Pending.
type Booking struct {
	ID                       BookingID     `json:"id"`
	UserID                   UserID        `json:"user_id"`
	CompanyName              string        `json:"company_name"`
	Email                    string        `json:"email"`
	Service                  Service       `json:"service"`
	ContactNumber            string        `json:"contact_number"`
	AlternativeContactNumber string        `json:"alternative_contact_number,omitempty"`
	State                    string        `json:"state"`
	City                     string        `json:"city"`
	Address                  string        `json:"address"`
	Pincode                  string        `json:"pincode"`
	Status                   BookingStatus `json:"status"`
	CreatedAt                time.Time     `json:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at"`
}

// BookingWithUser is a booking plus the owner's display name.
type BookingWithUser struct {
	Booking
	UserName string `json:"user_name"`
}

// BookingStats holds per-status counts over all bookings.
type BookingStats struct {
	Total         int `json:"total"`
	Pending       int `json:"pending"`
	Attended      int `json:"attended"`
	NotAttended   int `json:"not_attended"`
	NotSure       int `json:"not_sure"`
	Purchased     int `json:"purchased"`
	NotInterested int `json:"not_interested"`
}

// TallyBookings counts bookings by status.
func TallyBookings(bs []Booking) BookingStats {
	st := BookingStats{Total: len(bs)}
	for _, b := range bs {
		switch b.Status {
		case BookingPending:
			st.Pending++
		case BookingAttended:
			st.Attended++
		case BookingNotAttended:
			st.NotAttended++
		case BookingNotSure:
			st.NotSure++
		case BookingPurchasedService:
			st.Purchased++
		case BookingNotInterested:
			st.NotInterested++
		}
	}
	return st
}
