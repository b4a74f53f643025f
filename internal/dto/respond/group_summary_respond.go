package respond

// GroupSummaryRespond 群组拼单汇总响应
// 使用位置:
//   - internal/service/analytics/service.go: GroupSummary
type GroupSummaryRespond struct {
	GroupId         string `json:"group_id"`
	MemberCnt       int    `json:"member_cnt"`
	TotalOrders     int    `json:"total_orders"`
	FinishedOrders  int    `json:"finished_orders"`
	CancelledOrders int    `json:"cancelled_orders"`
	TotalSpent      string `json:"total_spent"` // 已完成拼单的菜品消费合计
}
