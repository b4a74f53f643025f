package respond

// BalanceRespond 群组内用户余额响应
// 使用位置:
//   - internal/service/balance/service.go: GetGroupBalances, GetMyBalance, AdjustBalance
type BalanceRespond struct {
	GroupId  string `json:"group_id"`
	UserId   string `json:"user_id"`
	FullName string `json:"full_name"`
	Amount   string `json:"amount"`
}
