package refund

import "errors"

var (
	ErrRefundNotFound         = errors.New("refund request not found")
	ErrAlreadyResolved        = errors.New("refund request already resolved")
	ErrPayoutInitiationFailed = errors.New("failed to initiate refund payout")
	ErrUnauthorized           = errors.New("unauthorized")
)
