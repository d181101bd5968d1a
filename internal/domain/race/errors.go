package race

// RetrievalError classifies failures of the race-data client.
type RetrievalError string

const (
	ErrQueryTooBroad   RetrievalError = "QUERY_TOO_BROAD"
	ErrRateLimited     RetrievalError = "RATE_LIMITED"
	ErrInternalFailure RetrievalError = "INTERNAL_FAILURE"
)

func (e RetrievalError) Error() string {
	return string(e)
}

// SettlementError is the outcome of a failed finish-event request.
type SettlementError string

const (
	ErrInvalidRequest       SettlementError = "INVALID_REQUEST"
	ErrEventAlreadyFinished SettlementError = "EVENT_ALREADY_FINISHED"
	ErrSettlementInternal   SettlementError = "INTERNAL_ERROR"
)

func (e SettlementError) Error() string {
	return string(e)
}
