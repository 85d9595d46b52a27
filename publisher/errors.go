package publisher

import (
	"context"
	"errors"
	"net"

	"github.com/aws/smithy-go"
)

// Throttling and server-side error codes worth retrying with backoff.
var throttleCodes = map[string]bool{
	"Throttling":              true,
	"ThrottlingException":     true,
	"RequestLimitExceeded":    true,
	"LimitExceededException":  true,
	"RequestThrottled":        true,
	"ServiceUnavailable":      true,
	"InternalServiceError":    true,
	"InternalFailure":         true,
	"RequestTimeout":          true,
	"RequestTimeoutException": true,
	"IDPCommunicationError":   true,
}

// Auth and request-shape errors; retrying these just repeats the
// failure, so the cycle gives up on them immediately.
var fatalCodes = map[string]bool{
	"AccessDenied":                true,
	"AccessDeniedException":       true,
	"AuthFailure":                 true,
	"UnauthorizedOperation":       true,
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"MissingAuthenticationToken":  true,
	"SignatureDoesNotMatch":       true,
	"ExpiredToken":                true,
	"ExpiredTokenException":       true,
	"InvalidParameterValue":       true,
	"InvalidParameterCombination": true,
	"MissingParameter":            true,
	"ValidationError":             true,
	"MalformedInput":              true,
	"InvalidFormat":               true,
}

// isRetriable classifies an error from PutMetricData. Throttling, 5xx
// and transport timeouts are transient; auth and malformed-request
// errors are not.
func isRetriable(err error) bool {
	if isFatal(err) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if throttleCodes[apiErr.ErrorCode()] {
			return true
		}
		return apiErr.ErrorFault() == smithy.FaultServer
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || errors.Is(err, context.DeadlineExceeded)
	}

	// Unclassified transport errors (connection reset, DNS hiccup) are
	// worth another attempt.
	return !errors.Is(err, context.Canceled)
}

// isFatal reports whether the error dooms the whole cycle: credentials
// or request shape, which no amount of retrying will fix.
func isFatal(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fatalCodes[apiErr.ErrorCode()]
	}
	return false
}
