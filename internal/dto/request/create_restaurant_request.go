package request

// CreateRestaurantRequest 创建餐馆请求
// 使用位置:
//   - internal/handler/restaurant_handler.go: CreateRestaurant
//   - internal/service/restaurant/service.go: CreateRestaurant
type CreateRestaurantRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	Name    string `json:"name" binding:"required,max=100"`
	Phone   string `json:"phone" binding:"max=20"`
	Note    string `json:"note" binding:"max=500"`
}
