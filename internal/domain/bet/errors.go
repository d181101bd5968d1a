package bet

// PlacementError is a business rejection of a bet placement request.
type PlacementError string

const (
	ErrAccountNotFound      PlacementError = "ACCOUNT_NOT_FOUND"
	ErrDriverMarketNotFound PlacementError = "DRIVER_MARKET_NOT_FOUND"
	ErrInsufficientFunds    PlacementError = "INSUFFICIENT_FUNDS"
	ErrInternal             PlacementError = "INTERNAL_ERROR"
	ErrPlacementInProgress  PlacementError = "PLACEMENT_IN_PROGRESS"
)

func (e PlacementError) Error() string {
	return string(e)
}

func (e PlacementError) Code() string {
	return string(e)
}
