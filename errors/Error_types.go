package errors

var (
	ErrUnknown              = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidRequest       = New(ERR_INVALID_REQUEST, "invalid request")
	ErrNoSpendableOutputs   = New(ERR_NO_SPENDABLE_OUTPUTS, "no spendable outputs")
	ErrConstructionFailed   = New(ERR_CONSTRUCTION_FAILED, "transaction construction failed")
	ErrTelemetryUnavailable = New(ERR_TELEMETRY_UNAVAILABLE, "telemetry unavailable")
	ErrTxInvalid            = New(ERR_TX_INVALID, "tx invalid")
	ErrNotFound             = New(ERR_NOT_FOUND, "not found")
	ErrProcessing           = New(ERR_PROCESSING, "error processing")
	ErrConfiguration        = New(ERR_CONFIGURATION, "configuration error")
	ErrServiceError         = New(ERR_SERVICE_ERROR, "service error")
	ErrNetworkTimeout       = New(ERR_NETWORK_TIMEOUT, "network timeout")
	ErrContextCanceled      = New(ERR_CONTEXT_CANCELED, "context canceled")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidRequestError(message string, params ...interface{}) error {
	return New(ERR_INVALID_REQUEST, message, params...)
}
func NewNoSpendableOutputsError(message string, params ...interface{}) error {
	return New(ERR_NO_SPENDABLE_OUTPUTS, message, params...)
}
func NewConstructionFailedError(message string, params ...interface{}) error {
	return New(ERR_CONSTRUCTION_FAILED, message, params...)
}
func NewTelemetryUnavailableError(message string, params ...interface{}) error {
	return New(ERR_TELEMETRY_UNAVAILABLE, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}
func NewNetworkTimeoutError(message string, params ...interface{}) error {
	return New(ERR_NETWORK_TIMEOUT, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
