package request

// CreateGroupRequest 创建群组请求
// 使用位置:
//   - internal/handler/group_handler.go: CreateGroup
//   - internal/service/group/service.go: CreateGroup
type CreateGroupRequest struct {
	Name   string `json:"name" binding:"required,max=50"`
	Notice string `json:"notice" binding:"max=500"`
	Avatar string `json:"avatar"`
}
