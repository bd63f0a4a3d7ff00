package model

import "time"

// Request is one user's intent to receive a specific donated item.
type Request struct {
	ID            int64         `json:"id"`
	ItemID        int64         `json:"item_id"`
	RequesterID   int64         `json:"requester_id"`
	Status        RequestStatus `json:"status"`
	RequesterName string        `json:"requester_name,omitempty"`
	ItemTitle     string        `json:"item_title,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// RequestStatus is the request lifecycle state.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// ValidRequestStatus reports whether s is one of the four lifecycle states.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCompleted:
		return true
	}
	return false
}

// transitionSource maps a target status to the only status a request may
// hold when transitioning into it. pending has no entry: requests are born
// pending and never return to it; rejected and completed are terminal.
var transitionSource = map[RequestStatus]RequestStatus{
	RequestApproved:  RequestPending,
	RequestRejected:  RequestPending,
	RequestCompleted: RequestApproved,
}

// TransitionSource returns the required current status for a transition
// into target, or false if no transition leads there.
func TransitionSource(target RequestStatus) (RequestStatus, bool) {
	src, ok := transitionSource[target]
	return src, ok
}
