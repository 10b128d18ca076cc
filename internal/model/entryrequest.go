package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the workflow state of an entry request.
type RequestStatus string

const (
	RequestDraft       RequestStatus = "DRAFT"
	RequestSubmitted   RequestStatus = "SUBMITTED"
	RequestUnderReview RequestStatus = "UNDER_REVIEW"
	RequestApproved    RequestStatus = "APPROVED"
	RequestRejected    RequestStatus = "REJECTED"
	RequestScheduled   RequestStatus = "SCHEDULED"
	RequestCheckedIn   RequestStatus = "CHECKED_IN"
	RequestInUse       RequestStatus = "IN_USE"
	RequestCheckedOut  RequestStatus = "CHECKED_OUT"
	RequestCancelled   RequestStatus = "CANCELLED"
	RequestExpired     RequestStatus = "EXPIRED"
)

// ParseRequestStatus converts the stored text form into a RequestStatus.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch st := RequestStatus(s); st {
	case RequestDraft, RequestSubmitted, RequestUnderReview, RequestApproved,
		RequestRejected, RequestScheduled, RequestCheckedIn, RequestInUse,
		RequestCheckedOut, RequestCancelled, RequestExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown request status: %q", s)
}

// EntryRequest records a request for a piece of equipment to enter the
// premises. On writes only the referenced identifiers are persisted; on
// reads the nested Equipment and Person objects are rehydrated through
// their repositories.
type EntryRequest struct {
	ID                  uuid.UUID     `json:"id"`
	Equipment           *Equipment    `json:"equipment"`
	Requester           *Person       `json:"requester"`
	InternalResponsible *Person       `json:"internal_responsible"`
	Purpose             string        `json:"purpose"`
	RequestedAt         time.Time     `json:"requested_at"`
	Status              RequestStatus `json:"status"`
}
