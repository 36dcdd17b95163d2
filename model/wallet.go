package model

// Wallet is the one-to-one prepaid balance for a user. It is created at
// registration with the configured welcome bonus and only mutated by
// recharge and exit billing.
type Wallet struct {
	UserID  int64   `json:"user_id"`
	Balance float64 `json:"balance"`
}

type RechargeReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
