package respond

// PopularDishRespond 热门菜品响应
// 使用位置:
//   - internal/service/analytics/service.go: PopularDishes
type PopularDishRespond struct {
	Name          string `json:"name"`
	TimesOrdered  int    `json:"times_ordered"`  // 出现在多少个已完成拼单中
	TotalQuantity int    `json:"total_quantity"` // 累计份数
	TotalSpent    string `json:"total_spent"`
}
