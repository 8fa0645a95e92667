package protocol

import (
	"errors"
	"fmt"
)

// TimeoutError means no frame arrived within the handle's configured
// per-frame timeout.
type TimeoutError struct {
	Phase string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("protocol: timeout waiting for %s frame: %v", e.Phase, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// ProtocolViolationError means a frame's tokens or framing did not match
// the wire contract: header/ready/metadata/done/can-get mismatch, wrong
// separator, oversized header, missing metadata separators, unknown voxel
// type or backend token.
type ProtocolViolationError struct {
	Reason string
	Cause  error
}

func (e *ProtocolViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol: violation: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("protocol: violation: %s", e.Reason)
}

func (e *ProtocolViolationError) Unwrap() error { return e.Cause }

func violation(reason string, cause error) error {
	return &ProtocolViolationError{Reason: reason, Cause: cause}
}

// ConfigurationError means the caller asked for something the protocol
// itself permits but this deployment rejects: e.g. a dim this consumer
// cannot handle, or invalid descriptor sizes.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("protocol: configuration: %s", e.Reason)
}

// TransportError wraps an underlying transport/socket failure.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("protocol: transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func transportErr(err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Cause: err}
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

// IsProtocolViolation reports whether err is (or wraps) a
// ProtocolViolationError.
func IsProtocolViolation(err error) bool {
	var v *ProtocolViolationError
	return errors.As(err, &v)
}
