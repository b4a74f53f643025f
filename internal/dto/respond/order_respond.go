package respond

// OrderRespond 拼单响应
// 金额字段以字符串形式输出，保留两位小数
// 使用位置:
//   - internal/service/order/service.go: CreateOrder, ListOrders, UpdateStatus, SetDeliveryFee
type OrderRespond struct {
	Uuid                 string `json:"uuid"`
	GroupId              string `json:"group_id"`
	InitiatorId          string `json:"initiator_id"`
	RestaurantId         string `json:"restaurant_id,omitempty"`
	Status               string `json:"status"`
	DeliveryFeeTotal     string `json:"delivery_fee_total,omitempty"`
	DeliveryFeePerPerson string `json:"delivery_fee_per_person,omitempty"`
	Note                 string `json:"note"`
	CreatedAt            string `json:"created_at"`
}
