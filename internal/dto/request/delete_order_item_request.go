package request

// DeleteOrderItemRequest 删除点餐条目请求
// 使用位置:
//   - internal/handler/order_handler.go: DeleteItem
type DeleteOrderItemRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	OrderId string `json:"order_id" binding:"required"`
	ItemId  string `json:"item_id" binding:"required"`
}
