package request

import "github.com/shopspring/decimal"

// SetDeliveryFeeRequest 设置配送费请求
// FeeTotal 与 FeePerPerson 二选一，另一项按点餐人数推导
// 使用位置:
//   - internal/handler/order_handler.go: SetDeliveryFee
//   - internal/service/order/service.go: SetDeliveryFee
type SetDeliveryFeeRequest struct {
	GroupId      string           `json:"group_id" binding:"required"`
	OrderId      string           `json:"order_id" binding:"required"`
	FeeTotal     *decimal.Decimal `json:"fee_total"`
	FeePerPerson *decimal.Decimal `json:"fee_per_person"`
}
