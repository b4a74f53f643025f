package request

// GroupQueryRequest 群组维度的通用查询参数
// 使用位置:
//   - internal/handler/group_handler.go: GetGroupInfo, GetGroupMemberList
//   - internal/handler/order_handler.go: ListOrders, GetActiveOrder
//   - internal/handler/balance_handler.go: GetGroupBalances, GetMyBalance
//   - internal/handler/analytics_handler.go: GroupSummary, UserSpending
//   - internal/handler/restaurant_handler.go: ListRestaurants
type GroupQueryRequest struct {
	GroupId string `json:"group_id" form:"group_id" binding:"required"`
}
