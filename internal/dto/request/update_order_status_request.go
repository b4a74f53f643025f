package request

// UpdateOrderStatusRequest 推进拼单状态请求
// 使用位置:
//   - internal/handler/order_handler.go: UpdateStatus
//   - internal/service/order/service.go: UpdateStatus
type UpdateOrderStatusRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	OrderId string `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}
