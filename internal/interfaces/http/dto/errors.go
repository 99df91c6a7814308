package dto

import (
	"net/http"
	"strings"
)

// Codes carried in the error envelope. Every code answers with exactly one
// HTTP status, see GetHTTPStatus.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidInput covers every field-level INVALID_* domain error
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState   = "ERR_INVALID_STATE"
	ErrCodeItemInactive   = "ERR_ITEM_INACTIVE"
	ErrCodeAlreadyDeleted = "ERR_ALREADY_DELETED"

	// ErrCodeAnalysisFailed means the vision model answered but the image could not be analyzed
	ErrCodeAnalysisFailed = "ERR_ANALYSIS_FAILED"
	// ErrCodeUpstreamUnavailable means the AI or weather provider could not be reached
	ErrCodeUpstreamUnavailable = "ERR_UPSTREAM_UNAVAILABLE"
	ErrCodeCityNotFound        = "ERR_CITY_NOT_FOUND"

	ErrCodeImageTooLarge        = "ERR_IMAGE_TOO_LARGE"
	ErrCodeUnsupportedMediaType = "ERR_UNSUPPORTED_MEDIA_TYPE"
	ErrCodeRequestTooLarge      = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited          = "ERR_RATE_LIMITED"
)

// errorCodes lists, per envelope code, its HTTP status and the domain error
// code translated to it (empty when no domain error produces it)
var errorCodes = []struct {
	code   string
	status int
	domain string
}{
	{ErrCodeInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
	{ErrCodeBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
	{ErrCodeValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrCodeInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{ErrCodeUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrCodeTokenExpired, http.StatusUnauthorized, ""},
	{ErrCodeTokenInvalid, http.StatusUnauthorized, ""},
	{ErrCodeForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrCodeNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrCodeAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
	{ErrCodeConflict, http.StatusConflict, ""},
	{ErrCodeConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
	{ErrCodeInvalidState, http.StatusUnprocessableEntity, "INVALID_STATE"},
	{ErrCodeItemInactive, http.StatusUnprocessableEntity, "ITEM_INACTIVE"},
	{ErrCodeAlreadyDeleted, http.StatusUnprocessableEntity, "ALREADY_DELETED"},
	{ErrCodeAnalysisFailed, http.StatusBadGateway, "ANALYSIS_FAILED"},
	{ErrCodeUpstreamUnavailable, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
	{ErrCodeCityNotFound, http.StatusNotFound, "CITY_NOT_FOUND"},
	{ErrCodeImageTooLarge, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE"},
	{ErrCodeUnsupportedMediaType, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
	{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge, ""},
	{ErrCodeRateLimited, http.StatusTooManyRequests, ""},
}

var (
	statusByCode = make(map[string]int, len(errorCodes))
	fromDomain   = map[string]string{
		// duplicate membership is a conflict, not a separate envelope code
		"DUPLICATE_LOOK_ITEM": ErrCodeConflict,
		"DUPLICATE_POSITION":  ErrCodeConflict,
	}
)

func init() {
	for _, e := range errorCodes {
		statusByCode[e.code] = e.status
		if e.domain != "" {
			fromDomain[e.domain] = e.code
		}
	}
}

// GetHTTPStatus returns the status for an envelope code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode translates a domain error code into an envelope code.
// Envelope codes and unknown codes are returned unchanged.
func NormalizeErrorCode(code string) string {
	if c, ok := fromDomain[code]; ok {
		return c
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
