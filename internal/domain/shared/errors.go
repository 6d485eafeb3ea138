package shared

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure so every layer can decide how to surface it
// without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindInsufficientResource
	KindNotFound
	KindConflict
	KindTransient
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInsufficientResource:
		return "insufficient_resource"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Stable error codes returned to clients
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeAlreadyTraveling     = "ALREADY_TRAVELING"
	CodeVesselTraveling      = "VESSEL_TRAVELING"
	CodeSameDestination      = "SAME_DESTINATION"
	CodeAlreadyAtPort        = "ALREADY_AT_PORT"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeCargoAlreadyLoaded   = "CARGO_ALREADY_LOADED"
	CodeCargoEmpty           = "CARGO_EMPTY"
	CodeCommodityMismatch    = "COMMODITY_MISMATCH"
	CodeCommodityNotProduced = "COMMODITY_NOT_PRODUCED"
	CodeSamePortSale         = "SAME_PORT_SALE"
	CodeAlreadyFullHealth    = "ALREADY_FULL_HEALTH"
	CodeMaxCrewLevel         = "MAX_CREW_LEVEL"
	CodeTowNotAvailable      = "TOW_NOT_AVAILABLE"
	CodeTankFull             = "TANK_FULL"
	CodeRefuelNotAvailable   = "REFUEL_NOT_AVAILABLE"
	CodeInvalidVesselType    = "INVALID_VESSEL_TYPE"
	CodeInsufficientFuel     = "INSUFFICIENT_FUEL"
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeInProgress           = "IN_PROGRESS"
	CodeDuplicateEntry       = "DUPLICATE_ENTRY"
	CodeStoreUnavailable     = "DATABASE_CONNECTION_ERROR"
	CodeInvariantViolation   = "INVARIANT_VIOLATION"
	CodeInternal             = "INTERNAL_ERROR"
)

// Coded is implemented by every error the domain returns on purpose
type Coded interface {
	error
	Kind() ErrorKind
	Code() string
}

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
	kind    ErrorKind
	code    string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Kind returns the error classification
func (e *DomainError) Kind() ErrorKind {
	return e.kind
}

// Code returns the stable client-facing code
func (e *DomainError) Code() string {
	return e.code
}

func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Message: message, kind: kind, code: code}
}

// Validation errors

type ValidationError struct {
	*DomainError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		DomainError: NewDomainError(KindValidation, CodeValidation, fmt.Sprintf("%s: %s", field, message)),
		Field:       field,
	}
}

// RuleViolationError reports a state precondition that does not hold
// (vessel already traveling, cargo already loaded, ...)
type RuleViolationError struct {
	*DomainError
}

func NewRuleViolation(code, message string) *RuleViolationError {
	return &RuleViolationError{DomainError: NewDomainError(KindValidation, code, message)}
}

// Insufficient resource errors

type InsufficientResourceError struct {
	*DomainError
	Resource  string
	Required  int
	Available int
}

func newInsufficient(code, resource string, required, available int) *InsufficientResourceError {
	return &InsufficientResourceError{
		DomainError: NewDomainError(KindInsufficientResource, code,
			fmt.Sprintf("insufficient %s: required %d, available %d", resource, required, available)),
		Resource:  resource,
		Required:  required,
		Available: available,
	}
}

func NewInsufficientFuelError(required, available int) *InsufficientResourceError {
	return newInsufficient(CodeInsufficientFuel, "fuel", required, available)
}

func NewInsufficientFundsError(required, available int) *InsufficientResourceError {
	return newInsufficient(CodeInsufficientFunds, "funds", required, available)
}

func NewInsufficientStockError(commodity Commodity, required, available int) *InsufficientResourceError {
	return newInsufficient(CodeInsufficientStock, string(commodity)+" stock", required, available)
}

// Shortfall is how much is missing
func (e *InsufficientResourceError) Shortfall() int {
	return e.Required - e.Available
}

// Not found

type NotFoundError struct {
	*DomainError
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: NewDomainError(KindNotFound, strings.ToUpper(entity)+"_NOT_FOUND",
			fmt.Sprintf("%s not found: %s", entity, id)),
		Entity: entity,
		ID:     id,
	}
}

// Conflict

type ConflictError struct {
	*DomainError
}

func NewConflictError(code, message string) *ConflictError {
	return &ConflictError{DomainError: NewDomainError(KindConflict, code, message)}
}

// TransientError marks a store failure that survived every retry attempt.
// Callers may safely try the whole request again.
type TransientError struct {
	Cause    error
	Attempts int
}

func NewTransientError(cause error, attempts int) *TransientError {
	return &TransientError{Cause: cause, Attempts: attempts}
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("store temporarily unavailable after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

func (e *TransientError) Kind() ErrorKind {
	return KindTransient
}

func (e *TransientError) Code() string {
	return CodeStoreUnavailable
}

// InvariantViolationError means the world is in a state the design forbids.
// Never swallowed: it is logged for operators and surfaced as a 500.
type InvariantViolationError struct {
	*DomainError
	Cause error
}

func NewInvariantViolation(message string, cause error) *InvariantViolationError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &InvariantViolationError{
		DomainError: NewDomainError(KindInvariant, CodeInvariantViolation, message),
		Cause:       cause,
	}
}

func (e *InvariantViolationError) Unwrap() error {
	return e.Cause
}

// KindOf returns the classification of err, or KindUnknown
func KindOf(err error) ErrorKind {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.Kind()
	}
	return KindUnknown
}

// CodeOf returns the client-facing code of err, or CodeInternal
func CodeOf(err error) string {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeInternal
}

// IsNotFound reports whether err is a NotFound domain error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsTransient reports whether err is a retry-exhausted store failure
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}
