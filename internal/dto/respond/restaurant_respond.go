package respond

// RestaurantRespond 餐馆响应
// 使用位置:
//   - internal/service/restaurant/service.go: CreateRestaurant, ListRestaurants
type RestaurantRespond struct {
	Uuid    string `json:"uuid"`
	GroupId string `json:"group_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Note    string `json:"note"`
}
