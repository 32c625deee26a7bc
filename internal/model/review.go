package model

import "time"

// ReviewID identifies a row in the `reviews` table.
type ReviewID uint64

// Review is feedback left by a customer on one of their purchased
// bookings.  A (UserID, BookingID) pair appears at most once.  Reviews are
// only shown publicly once Approved is set by an admin.
type Review struct {
	ID        ReviewID  `json:"id"`
	UserID    UserID    `json:"user_id"`
	BookingID BookingID `json:"booking_id"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicReview is an approved review with the author's public profile.
type PublicReview struct {
	Review
	UserName  string `json:"user_name"`
	UserImage string `json:"user_image,omitempty"`
}

// AdminReview is a review with the author's contact details.
type AdminReview struct {
	Review
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
