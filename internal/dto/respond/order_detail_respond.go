package respond

// OrderDetailRespond 拼单详情响应（含点餐条目与合计）
// 使用位置:
//   - internal/service/order/service.go: GetOrderDetail, GetActiveOrder
type OrderDetailRespond struct {
	OrderRespond
	Items       []OrderItemRespond `json:"items"`
	TotalAmount string             `json:"total_amount"` // 菜品小计之和，不含配送费
}
