package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
)

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository 创建邀请 Repository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

// FindByToken 按令牌查找邀请
func (r *invitationRepository) FindByToken(token string) (*model.GroupInvitation, error) {
	var invitation model.GroupInvitation
	if err := r.db.First(&invitation, "token = ?", token).Error; err != nil {
		return nil, wrapDBError(err, "查询邀请")
	}
	return &invitation, nil
}

// FindByGroupUuid 查找群组的所有邀请
func (r *invitationRepository) FindByGroupUuid(groupUuid string) ([]model.GroupInvitation, error) {
	var invitations []model.GroupInvitation
	if err := r.db.Where("group_uuid = ?", groupUuid).
		Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群邀请 group_uuid=%s", groupUuid)
	}
	return invitations, nil
}

// FindPendingByGroupAndEmail 查找群组内某邮箱的待处理邀请
// 用于创建邀请时的重复检查
func (r *invitationRepository) FindPendingByGroupAndEmail(groupUuid, email string) (*model.GroupInvitation, error) {
	var invitation model.GroupInvitation
	if err := r.db.Where("group_uuid = ? AND invitee_email = ? AND status = ?",
		groupUuid, email, model.InvitationPending).First(&invitation).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待处理邀请 group_uuid=%s", groupUuid)
	}
	return &invitation, nil
}

// FindByInviteeEmail 查找邮箱收到的所有邀请
func (r *invitationRepository) FindByInviteeEmail(email string) ([]model.GroupInvitation, error) {
	var invitations []model.GroupInvitation
	if err := r.db.Where("invitee_email = ?", email).
		Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, wrapDBError(err, "查询用户邀请")
	}
	return invitations, nil
}

// Create 创建邀请
func (r *invitationRepository) Create(invitation *model.GroupInvitation) error {
	if err := r.db.Create(invitation).Error; err != nil {
		return wrapDBError(err, "创建邀请")
	}
	return nil
}

// Update 更新邀请
func (r *invitationRepository) Update(invitation *model.GroupInvitation) error {
	if err := r.db.Save(invitation).Error; err != nil {
		return wrapDBError(err, "更新邀请")
	}
	return nil
}
