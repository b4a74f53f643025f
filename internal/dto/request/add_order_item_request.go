package request

import "github.com/shopspring/decimal"

// AddOrderItemRequest 添加点餐条目请求
// UserId 为空表示为本人点餐；指定他人时需要相应权限
// 使用位置:
//   - internal/handler/order_handler.go: AddItem
//   - internal/service/order/service.go: AddItem
type AddOrderItemRequest struct {
	GroupId  string          `json:"group_id" binding:"required"`
	OrderId  string          `json:"order_id" binding:"required"`
	UserId   string          `json:"user_id"`
	Name     string          `json:"name" binding:"required,max=100"`
	Detail   string          `json:"detail" binding:"max=500"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int             `json:"quantity"` // 空值默认 1
}
