package respond

// OrderItemRespond 点餐条目响应
// 使用位置:
//   - internal/service/order/service.go: AddItem, UpdateItem, GetOrderDetail
type OrderItemRespond struct {
	Uuid     string `json:"uuid"`
	UserId   string `json:"user_id"`
	UserName string `json:"user_name"`
	Name     string `json:"name"`
	Detail   string `json:"detail"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}
