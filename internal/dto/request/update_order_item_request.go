package request

import "github.com/shopspring/decimal"

// UpdateOrderItemRequest 修改点餐条目请求
// 使用位置:
//   - internal/handler/order_handler.go: UpdateItem
//   - internal/service/order/service.go: UpdateItem
type UpdateOrderItemRequest struct {
	GroupId  string           `json:"group_id" binding:"required"`
	OrderId  string           `json:"order_id" binding:"required"`
	ItemId   string           `json:"item_id" binding:"required"`
	Name     string           `json:"name" binding:"max=100"`
	Detail   *string          `json:"detail"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
}
