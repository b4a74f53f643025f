// Package balance 余额业务逻辑
// 余额账户按 (群组, 用户) 惰性创建，每次变动与流水在同一事务内成对写入
package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dingcan_server/internal/dao/mysql/repository"
	myredis "dingcan_server/internal/dao/redis"
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/dto/respond"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service/guard"
	"dingcan_server/pkg/constants"
	"dingcan_server/pkg/errorx"
	"dingcan_server/pkg/util/random"
)

type balanceService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewBalanceService 创建余额 Service 实例
func NewBalanceService(repos *repository.Repositories, cache myredis.AsyncCacheService) *balanceService {
	return &balanceService{repos: repos, cache: cache}
}

// ApplyDelta 在事务内变更余额并追加一条流水
// 账户不存在时按需创建；余额行加锁串行化读-改-写
// orderUuid/createdBy 为空串表示流水不关联订单/无操作人（结算扣款场景）
// 必须在 Transaction 内调用，传入事务内的 Repositories
func ApplyDelta(tx *repository.Repositories, groupUuid, userUuid string, delta decimal.Decimal, changeType, note, orderUuid, createdBy string) (*model.Balance, error) {
	account, err := tx.Balance.FindByGroupAndUserForUpdate(groupUuid, userUuid)
	if err != nil {
		if !errorx.IsNotFound(err) {
			return nil, err
		}
		account = &model.Balance{
			Uuid:      fmt.Sprintf("B%s", random.GetNowAndLenRandomString(13)),
			GroupUuid: groupUuid,
			UserUuid:  userUuid,
			Amount:    decimal.Zero,
		}
		if err = tx.Balance.Create(account); err != nil {
			return nil, err
		}
	}

	account.Amount = account.Amount.Add(delta)
	if err = tx.Balance.Update(account); err != nil {
		return nil, err
	}

	history := &model.BalanceHistory{
		Uuid:         fmt.Sprintf("H%s", random.GetNowAndLenRandomString(13)),
		BalanceUuid:  account.Uuid,
		ChangeAmount: delta,
		BalanceAfter: account.Amount,
		ChangeType:   changeType,
		Note:         note,
	}
	if orderUuid != "" {
		history.OrderUuid = sql.NullString{String: orderUuid, Valid: true}
	}
	if createdBy != "" {
		history.CreatedByUuid = sql.NullString{String: createdBy, Valid: true}
	}
	if err = tx.BalanceHistory.Create(history); err != nil {
		return nil, err
	}
	return account, nil
}

// GetGroupBalances 查看群组全员余额
// 需要 balances 资源的 viewer 及以上权限
func (b *balanceService) GetGroupBalances(actor *model.UserInfo, groupId string) ([]respond.BalanceRespond, error) {
	if _, err := b.repos.Group.FindByUuid(groupId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "群组不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	member, perms, err := guard.LoadMembership(b.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceBalances, model.ScopeViewer, model.ScopeEditor); err != nil {
		return nil, err
	}

	// 先读缓存
	cacheKey := "group_balances_" + groupId
	if cached, err := b.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var rsp []respond.BalanceRespond
		if err = json.Unmarshal([]byte(cached), &rsp); err == nil {
			return rsp, nil
		}
	}

	accounts, err := b.repos.Balance.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	userUuids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		userUuids = append(userUuids, a.UserUuid)
	}
	names := b.userNames(userUuids)

	rsp := make([]respond.BalanceRespond, 0, len(accounts))
	for _, a := range accounts {
		rsp = append(rsp, respond.BalanceRespond{
			GroupId:  a.GroupUuid,
			UserId:   a.UserUuid,
			FullName: names[a.UserUuid],
			Amount:   a.Amount.StringFixed(2),
		})
	}

	// 异步写缓存
	b.cache.SubmitTask(func() {
		if data, err := json.Marshal(rsp); err == nil {
			_ = b.cache.Set(context.Background(), cacheKey, string(data), constants.REDIS_TIMEOUT*time.Minute)
		}
	})
	return rsp, nil
}

// GetMyBalance 查看本人余额
// 任何群组成员都可查看自己的余额，无账户时返回零值
func (b *balanceService) GetMyBalance(actor *model.UserInfo, groupId string) (*respond.BalanceRespond, error) {
	member, _, err := guard.LoadMembership(b.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}

	account, err := b.repos.Balance.FindByGroupAndUser(groupId, actor.Uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.BalanceRespond{
				GroupId:  groupId,
				UserId:   actor.Uuid,
				FullName: actor.FullName,
				Amount:   decimal.Zero.StringFixed(2),
			}, nil
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return &respond.BalanceRespond{
		GroupId:  account.GroupUuid,
		UserId:   account.UserUuid,
		FullName: actor.FullName,
		Amount:   account.Amount.StringFixed(2),
	}, nil
}

// GetBalanceHistory 查看某成员的余额流水
// 查看本人流水只需成员身份，查看他人流水需要 balances viewer 及以上
func (b *balanceService) GetBalanceHistory(actor *model.UserInfo, groupId, userId string) ([]respond.BalanceHistoryRespond, error) {
	member, perms, err := guard.LoadMembership(b.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if userId != actor.Uuid {
		if err = guard.Authorize(actor, member, perms, model.ResourceBalances, model.ScopeViewer, model.ScopeEditor); err != nil {
			return nil, err
		}
	} else if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}

	// 目标必须是群组成员
	if _, err = b.repos.GroupMember.FindByGroupAndUser(groupId, userId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "该用户不是群组成员")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	account, err := b.repos.Balance.FindByGroupAndUser(groupId, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			// 账户尚未创建，流水为空
			return []respond.BalanceHistoryRespond{}, nil
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	histories, err := b.repos.BalanceHistory.FindByBalanceUuid(account.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := make([]respond.BalanceHistoryRespond, 0, len(histories))
	for _, h := range histories {
		item := respond.BalanceHistoryRespond{
			Uuid:         h.Uuid,
			ChangeAmount: h.ChangeAmount.StringFixed(2),
			BalanceAfter: h.BalanceAfter.StringFixed(2),
			ChangeType:   h.ChangeType,
			Note:         h.Note,
			CreatedAt:    h.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if h.OrderUuid.Valid {
			item.OrderId = h.OrderUuid.String
		}
		if h.CreatedByUuid.Valid {
			item.CreatedBy = h.CreatedByUuid.String
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}

// AdjustBalance 手工调整余额
// 需要 balances editor 权限；不论正负都记为 manual 流水
func (b *balanceService) AdjustBalance(actor *model.UserInfo, req request.AdjustBalanceRequest) (*respond.BalanceRespond, error) {
	member, perms, err := guard.LoadMembership(b.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceBalances, model.ScopeEditor); err != nil {
		return nil, err
	}
	if req.Amount.IsZero() {
		return nil, errorx.New(errorx.CodeInvalidParam, "变动金额不能为零")
	}

	// 目标必须是群组成员
	target, err := b.repos.GroupMember.FindByGroupAndUser(req.GroupId, req.UserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "该用户不是群组成员")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	var account *model.Balance
	err = b.repos.Transaction(func(tx *repository.Repositories) error {
		account, err = ApplyDelta(tx, req.GroupId, target.UserUuid, req.Amount, model.ChangeTypeManual, req.Note, "", actor.Uuid)
		return err
	})
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	// 异步失效余额缓存
	b.cache.SubmitTask(func() {
		_ = b.cache.DeleteByPattern(context.Background(), "group_balances_"+req.GroupId+"*")
	})

	names := b.userNames([]string{account.UserUuid})
	return &respond.BalanceRespond{
		GroupId:  account.GroupUuid,
		UserId:   account.UserUuid,
		FullName: names[account.UserUuid],
		Amount:   account.Amount.StringFixed(2),
	}, nil
}

// userNames 批量查询用户姓名，查询失败时返回空映射（展示名缺失不影响主流程）
func (b *balanceService) userNames(uuids []string) map[string]string {
	names := make(map[string]string, len(uuids))
	if len(uuids) == 0 {
		return names
	}
	users, err := b.repos.User.FindByUuids(uuids)
	if err != nil {
		zap.L().Warn("查询用户姓名失败", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.Uuid] = u.FullName
	}
	return names
}
