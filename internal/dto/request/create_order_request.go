package request

// CreateOrderRequest 发起拼单请求
// 使用位置:
//   - internal/handler/order_handler.go: CreateOrder
//   - internal/service/order/service.go: CreateOrder
type CreateOrderRequest struct {
	GroupId      string `json:"group_id" binding:"required"`
	RestaurantId string `json:"restaurant_id"` // 可空，结算时用于菜品沉淀
	Note         string `json:"note" binding:"max=500"`
}
