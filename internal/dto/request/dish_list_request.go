package request

// DishListRequest 餐馆菜品列表查询参数
// 使用位置:
//   - internal/handler/restaurant_handler.go: ListDishes
type DishListRequest struct {
	GroupId      string `json:"group_id" form:"group_id" binding:"required"`
	RestaurantId string `json:"restaurant_id" form:"restaurant_id" binding:"required"`
}
