package request

// PopularDishesRequest 热门菜品排行查询参数
// Limit 为 0 时使用服务端默认条数
// 使用位置:
//   - internal/handler/analytics_handler.go: PopularDishes
type PopularDishesRequest struct {
	GroupId string `json:"group_id" form:"group_id" binding:"required"`
	Limit   int    `json:"limit" form:"limit" binding:"omitempty,min=1,max=100"`
}
