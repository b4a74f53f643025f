package respond

// GroupInfoRespond 群组信息响应
// 使用位置:
//   - internal/service/group/service.go: CreateGroup, GetGroupInfo, LoadMyGroups, AcceptInvitation
type GroupInfoRespond struct {
	Uuid      string `json:"uuid"`
	Name      string `json:"name"`
	Notice    string `json:"notice"`
	MemberCnt int    `json:"member_cnt"`
	OwnerId   string `json:"owner_id"`
	Avatar    string `json:"avatar"`
	Status    int8   `json:"status"`
}
