package model

// BalanceResponse represents the balance of a vault key
type BalanceResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	SOL     string `json:"sol"`
	Rate    string `json:"rate"`
	USD     string `json:"sol_amount_in_usd"`
}
