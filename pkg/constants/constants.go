package constants

const (
	CHANNEL_SIZE            = 100 // 通道大小
	REDIS_TIMEOUT           = 1   // redis timeout (分钟)
	MAX_GROUPS_PER_USER     = 5   // 普通用户可创建的群组上限（管理员不受限）
	MAX_GROUP_MEMBERS       = 25  // 单个群组成员上限
	INVITATION_EXPIRY_HOURS = 168 // 邀请有效期（小时），168小时 = 7天
	INVITATION_TOKEN_BYTES  = 32  // 邀请令牌随机字节数（url-safe 编码前）
)
