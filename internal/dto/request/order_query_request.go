package request

// OrderQueryRequest 拼单详情查询参数
// 使用位置:
//   - internal/handler/order_handler.go: GetOrderDetail
type OrderQueryRequest struct {
	GroupId string `json:"group_id" form:"group_id" binding:"required"`
	OrderId string `json:"order_id" form:"order_id" binding:"required"`
}
