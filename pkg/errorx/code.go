package errorx

import "net/http"

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Review codes
	SelfApprovalForbidden  Code = 200001
	NotAssignedToChallenge Code = 200002
	AlreadyReviewed        Code = 200003

	// Reward codes
	BudgetExceeded Code = 300001
	IssuanceFailed Code = 300002
)

func (c Code) HTTPStatus() int {
	switch c {
	case BadRequest:
		return http.StatusBadRequest
	case PermissionDenied, SelfApprovalForbidden, NotAssignedToChallenge:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated:
		return http.StatusUnauthorized
	case AlreadyExists, AlreadyReviewed:
		return http.StatusConflict
	case BudgetExceeded:
		return http.StatusUnprocessableEntity
	case Unavailable, IssuanceFailed:
		return http.StatusServiceUnavailable
	case NotImplemented:
		return http.StatusNotImplemented
	case TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
