package request

// UpdateGroupInfoRequest 更新群组信息请求
// 使用位置:
//   - internal/handler/group_handler.go: UpdateGroupInfo
//   - internal/service/group/service.go: UpdateGroupInfo
type UpdateGroupInfoRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	Name    string `json:"name" binding:"max=50"`
	Notice  string `json:"notice" binding:"max=500"`
	Avatar  string `json:"avatar"`
}
