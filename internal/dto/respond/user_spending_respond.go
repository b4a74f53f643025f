package respond

// UserSpendingRespond 按成员的消费统计响应
// 使用位置:
//   - internal/service/analytics/service.go: UserSpending
type UserSpendingRespond struct {
	UserId     string `json:"user_id"`
	FullName   string `json:"full_name"`
	OrderCount int    `json:"order_count"` // 参与的已完成拼单数
	TotalSpent string `json:"total_spent"`
}
