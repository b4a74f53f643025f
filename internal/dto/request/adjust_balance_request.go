package request

import "github.com/shopspring/decimal"

// AdjustBalanceRequest 手工调整余额请求
// Amount 为变动额，正数充值、负数扣减，不允许为零
// 使用位置:
//   - internal/handler/balance_handler.go: AdjustBalance
//   - internal/service/balance/service.go: AdjustBalance
type AdjustBalanceRequest struct {
	GroupId string          `json:"group_id" binding:"required"`
	UserId  string          `json:"user_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Note    string          `json:"note" binding:"max=500"`
}
