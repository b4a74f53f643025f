package respond

// BalanceHistoryRespond 余额流水响应
// 使用位置:
//   - internal/service/balance/service.go: GetBalanceHistory
type BalanceHistoryRespond struct {
	Uuid         string `json:"uuid"`
	ChangeAmount string `json:"change_amount"`
	BalanceAfter string `json:"balance_after"`
	ChangeType   string `json:"change_type"`
	Note         string `json:"note"`
	OrderId      string `json:"order_id,omitempty"`
	CreatedBy    string `json:"created_by,omitempty"`
	CreatedAt    string `json:"created_at"`
}
