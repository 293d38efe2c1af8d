package leaveapperrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrApplicationNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave application not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrRecallReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"recall_reason is required",
		http.StatusBadRequest,
	)
	ErrLeaveNotOngoing = apperror.New(
		apperror.CodeInvalidState,
		"leave is not currently ongoing",
		http.StatusBadRequest,
	)
	ErrRecallNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"this leave plan does not allow recall",
		http.StatusBadRequest,
	)
	ErrResumptionOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"resumption_date must fall within the leave period",
		http.StatusBadRequest,
	)
)
