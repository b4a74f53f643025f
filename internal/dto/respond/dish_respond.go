package respond

// DishRespond 菜品响应
// 使用位置:
//   - internal/service/restaurant/service.go: ListDishes
type DishRespond struct {
	Uuid   string `json:"uuid"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Price  string `json:"price"`
}
