package request

// BalanceHistoryQueryRequest 余额流水查询参数
// 使用位置:
//   - internal/handler/balance_handler.go: GetBalanceHistory
type BalanceHistoryQueryRequest struct {
	GroupId string `json:"group_id" form:"group_id" binding:"required"`
	UserId  string `json:"user_id" form:"user_id" binding:"required"`
}
