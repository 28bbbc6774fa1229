package errutil

// Reason is the stable machine-readable cause of a domain failure.
type Reason string

const (
	ReasonNotFound            Reason = "NOT_FOUND"
	ReasonInvalidTransition   Reason = "INVALID_TRANSITION"
	ReasonInvalidStatus       Reason = "INVALID_STATUS"
	ReasonInsufficientBalance Reason = "INSUFFICIENT_BALANCE"
	ReasonBelowMinimum        Reason = "BELOW_MINIMUM"
	ReasonInvalidRecord       Reason = "INVALID_RECORD"
	ReasonAlreadyExists       Reason = "ALREADY_EXISTS"
	ReasonPaymentNotApproved  Reason = "PAYMENT_NOT_APPROVED"
	ReasonReelLocked          Reason = "REEL_LOCKED"
	ReasonConcurrentUpdate    Reason = "CONCURRENT_UPDATE"
)

// Sentinels for errors.Is.
var (
	ErrNotFound            = BaseError{Reason: ReasonNotFound}
	ErrInvalidTransition   = BaseError{Reason: ReasonInvalidTransition}
	ErrInvalidStatus       = BaseError{Reason: ReasonInvalidStatus}
	ErrInsufficientBalance = BaseError{Reason: ReasonInsufficientBalance}
	ErrBelowMinimum        = BaseError{Reason: ReasonBelowMinimum}
	ErrInvalidRecord       = BaseError{Reason: ReasonInvalidRecord}
	ErrAlreadyExists       = BaseError{Reason: ReasonAlreadyExists}
	ErrPaymentNotApproved  = BaseError{Reason: ReasonPaymentNotApproved}
	ErrReelLocked          = BaseError{Reason: ReasonReelLocked}
	ErrConcurrentUpdate    = BaseError{Reason: ReasonConcurrentUpdate}
)

func InvalidTransition(msg string, options ...Option) error {
	return build(StatusConflict, ReasonInvalidTransition, msg, nil, options)
}

func InvalidStatus(msg string, options ...Option) error {
	return build(StatusBadRequest, ReasonInvalidStatus, msg, nil, options)
}

func InsufficientBalance(msg string, options ...Option) error {
	return build(StatusUnprocessableEntity, ReasonInsufficientBalance, msg, nil, options)
}

func BelowMinimum(msg string, options ...Option) error {
	return build(StatusUnprocessableEntity, ReasonBelowMinimum, msg, nil, options)
}

func InvalidRecord(msg string, options ...Option) error {
	return build(StatusBadRequest, ReasonInvalidRecord, msg, nil, options)
}

func AlreadyExists(msg string, options ...Option) error {
	return build(StatusConflict, ReasonAlreadyExists, msg, nil, options)
}

func PaymentNotApproved(msg string, options ...Option) error {
	return build(StatusBadRequest, ReasonPaymentNotApproved, msg, nil, options)
}

func ReelLocked(msg string, options ...Option) error {
	return build(StatusBadRequest, ReasonReelLocked, msg, nil, options)
}

func ConcurrentUpdate(msg string, err error, options ...Option) error {
	return build(StatusConflict, ReasonConcurrentUpdate, msg, err, options)
}
