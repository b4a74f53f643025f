// Package memory 提供 Repository 接口的内存实现
// 供 Service 层测试使用，不依赖数据库；Transaction 在无 db 绑定时直接执行
package memory

import (
	"sort"
	"sync"
	"time"

	"dingcan_server/internal/dao/mysql/repository"
	"dingcan_server/internal/model"
	"dingcan_server/pkg/errorx"
)

func notFound() error {
	return errorx.New(errorx.CodeNotFound, "record not found")
}

// store 各表的内存存储
type store struct {
	mu          sync.Mutex
	users       []model.UserInfo
	groups      []model.GroupInfo
	members     []model.GroupMember
	permissions []model.GroupMemberPermission
	invitations []model.GroupInvitation
	orders      []model.Order
	items       []model.OrderItem
	balances    []model.Balance
	histories   []model.BalanceHistory
	restaurants []model.Restaurant
	dishes      []model.Dish
}

// NewRepositories 创建内存版 Repositories 聚合
func NewRepositories() *repository.Repositories {
	s := &store{}
	return &repository.Repositories{
		User:           &userRepo{s},
		Group:          &groupRepo{s},
		GroupMember:    &memberRepo{s},
		Permission:     &permissionRepo{s},
		Invitation:     &invitationRepo{s},
		Order:          &orderRepo{s},
		OrderItem:      &itemRepo{s},
		Balance:        &balanceRepo{s},
		BalanceHistory: &historyRepo{s},
		Restaurant:     &restaurantRepo{s},
		Dish:           &dishRepo{s},
	}
}

// ==================== 用户 ====================

type userRepo struct{ s *store }

func (r *userRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Uuid == uuid {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, notFound()
}

func (r *userRepo) FindByEmail(email string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, notFound()
}

func (r *userRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := make(map[string]struct{}, len(uuids))
	for _, id := range uuids {
		set[id] = struct{}{}
	}
	result := make([]model.UserInfo, 0, len(uuids))
	for i := range r.s.users {
		if _, ok := set[r.s.users[i].Uuid]; ok {
			result = append(result, r.s.users[i])
		}
	}
	return result, nil
}

func (r *userRepo) Create(user *model.UserInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.CreatedAt = time.Now()
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *userRepo) Update(user *model.UserInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Uuid == user.Uuid {
			r.s.users[i] = *user
			return nil
		}
	}
	return notFound()
}

// ==================== 群组 ====================

type groupRepo struct{ s *store }

func (r *groupRepo) FindByUuid(uuid string) (*model.GroupInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(uuid)
}

func (r *groupRepo) FindByUuidForUpdate(uuid string) (*model.GroupInfo, error) {
	// 内存实现无行锁，语义与普通查找一致
	return r.FindByUuid(uuid)
}

func (r *groupRepo) find(uuid string) (*model.GroupInfo, error) {
	for i := range r.s.groups {
		if r.s.groups[i].Uuid == uuid && r.s.groups[i].DeletedAt.Time.IsZero() {
			g := r.s.groups[i]
			return &g, nil
		}
	}
	return nil, notFound()
}

func (r *groupRepo) FindByOwnerId(ownerId string) ([]model.GroupInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.GroupInfo, 0)
	for i := range r.s.groups {
		if r.s.groups[i].OwnerId == ownerId && r.s.groups[i].DeletedAt.Time.IsZero() {
			result = append(result, r.s.groups[i])
		}
	}
	return result, nil
}

func (r *groupRepo) CountByOwnerId(ownerId string) (int64, error) {
	groups, _ := r.FindByOwnerId(ownerId)
	return int64(len(groups)), nil
}

func (r *groupRepo) Create(group *model.GroupInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	group.CreatedAt = time.Now()
	r.s.groups = append(r.s.groups, *group)
	return nil
}

func (r *groupRepo) Update(group *model.GroupInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.groups {
		if r.s.groups[i].Uuid == group.Uuid {
			r.s.groups[i] = *group
			return nil
		}
	}
	return notFound()
}

func (r *groupRepo) IncrementMemberCount(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.groups {
		if r.s.groups[i].Uuid == uuid {
			r.s.groups[i].MemberCnt++
			return nil
		}
	}
	return notFound()
}

func (r *groupRepo) DecrementMemberCountBy(uuid string, count int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.groups {
		if r.s.groups[i].Uuid == uuid {
			r.s.groups[i].MemberCnt -= count
			return nil
		}
	}
	return notFound()
}

func (r *groupRepo) SoftDeleteByUuid(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.groups {
		if r.s.groups[i].Uuid == uuid {
			r.s.groups[i].DeletedAt.Time = time.Now()
			r.s.groups[i].DeletedAt.Valid = true
			return nil
		}
	}
	return notFound()
}

// ==================== 群成员 ====================

type memberRepo struct{ s *store }

func (r *memberRepo) FindByGroupUuid(groupUuid string) ([]model.GroupMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.GroupMember, 0)
	for i := range r.s.members {
		if r.s.members[i].GroupUuid == groupUuid {
			result = append(result, r.s.members[i])
		}
	}
	return result, nil
}

func (r *memberRepo) FindByGroupAndUser(groupUuid, userUuid string) (*model.GroupMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.members {
		if r.s.members[i].GroupUuid == groupUuid && r.s.members[i].UserUuid == userUuid {
			m := r.s.members[i]
			return &m, nil
		}
	}
	return nil, notFound()
}

func (r *memberRepo) FindByUserUuid(userUuid string) ([]model.GroupMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.GroupMember, 0)
	for i := range r.s.members {
		if r.s.members[i].UserUuid == userUuid {
			result = append(result, r.s.members[i])
		}
	}
	return result, nil
}

func (r *memberRepo) CountByGroupUuid(groupUuid string) (int64, error) {
	members, _ := r.FindByGroupUuid(groupUuid)
	return int64(len(members)), nil
}

func (r *memberRepo) Create(member *model.GroupMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	member.CreatedAt = time.Now()
	r.s.members = append(r.s.members, *member)
	return nil
}

func (r *memberRepo) UpdateRole(memberUuid, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.members {
		if r.s.members[i].Uuid == memberUuid {
			r.s.members[i].Role = role
			return nil
		}
	}
	return notFound()
}

func (r *memberRepo) Delete(groupUuid, userUuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.members {
		if r.s.members[i].GroupUuid == groupUuid && r.s.members[i].UserUuid == userUuid {
			r.s.members = append(r.s.members[:i], r.s.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memberRepo) DeleteByGroupUuid(groupUuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.members[:0]
	for i := range r.s.members {
		if r.s.members[i].GroupUuid != groupUuid {
			kept = append(kept, r.s.members[i])
		}
	}
	r.s.members = kept
	return nil
}

// ==================== 成员权限 ====================

type permissionRepo struct{ s *store }

func (r *permissionRepo) FindByMemberUuid(memberUuid string) ([]model.GroupMemberPermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.GroupMemberPermission, 0)
	for i := range r.s.permissions {
		if r.s.permissions[i].MemberUuid == memberUuid {
			result = append(result, r.s.permissions[i])
		}
	}
	return result, nil
}

func (r *permissionRepo) FindByMemberUuids(memberUuids []string) ([]model.GroupMemberPermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := make(map[string]struct{}, len(memberUuids))
	for _, id := range memberUuids {
		set[id] = struct{}{}
	}
	result := make([]model.GroupMemberPermission, 0)
	for i := range r.s.permissions {
		if _, ok := set[r.s.permissions[i].MemberUuid]; ok {
			result = append(result, r.s.permissions[i])
		}
	}
	return result, nil
}

func (r *permissionRepo) ReplaceForMember(memberUuid string, perms []model.GroupMemberPermission) error {
	if err := r.DeleteByMemberUuid(memberUuid); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.permissions = append(r.s.permissions, perms...)
	return nil
}

func (r *permissionRepo) Upsert(memberUuid, resourceType, level string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.permissions {
		if r.s.permissions[i].MemberUuid == memberUuid && r.s.permissions[i].ResourceType == resourceType {
			r.s.permissions[i].Level = level
			return nil
		}
	}
	r.s.permissions = append(r.s.permissions, model.GroupMemberPermission{
		MemberUuid:   memberUuid,
		ResourceType: resourceType,
		Level:        level,
	})
	return nil
}

func (r *permissionRepo) DeleteByMemberUuid(memberUuid string) error {
	return r.DeleteByMemberUuids([]string{memberUuid})
}

func (r *permissionRepo) DeleteByMemberUuids(memberUuids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := make(map[string]struct{}, len(memberUuids))
	for _, id := range memberUuids {
		set[id] = struct{}{}
	}
	kept := r.s.permissions[:0]
	for i := range r.s.permissions {
		if _, ok := set[r.s.permissions[i].MemberUuid]; !ok {
			kept = append(kept, r.s.permissions[i])
		}
	}
	r.s.permissions = kept
	return nil
}

// ==================== 邀请 ====================

type invitationRepo struct{ s *store }

func (r *invitationRepo) FindByToken(token string) (*model.GroupInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.invitations {
		if r.s.invitations[i].Token == token {
			inv := r.s.invitations[i]
			return &inv, nil
		}
	}
	return nil, notFound()
}

func (r *invitationRepo) FindByGroupUuid(groupUuid string) ([]model.GroupInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.GroupInvitation, 0)
	for i := range r.s.invitations {
		if r.s.invitations[i].GroupUuid == groupUuid {
			result = append(result, r.s.invitations[i])
		}
	}
	return result, nil
}

func (r *invitationRepo) FindPendingByGroupAndEmail(groupUuid, email string) (*model.GroupInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.invitations {
		inv := &r.s.invitations[i]
		if inv.GroupUuid == groupUuid && inv.InviteeEmail == email && inv.Status == model.InvitationPending {
			found := *inv
			return &found, nil
		}
	}
	return nil, notFound()
}

func (r *invitationRepo) FindByInviteeEmail(email string) ([]model.GroupInvitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.GroupInvitation, 0)
	for i := range r.s.invitations {
		if r.s.invitations[i].InviteeEmail == email {
			result = append(result, r.s.invitations[i])
		}
	}
	return result, nil
}

func (r *invitationRepo) Create(invitation *model.GroupInvitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	invitation.CreatedAt = time.Now()
	r.s.invitations = append(r.s.invitations, *invitation)
	return nil
}

func (r *invitationRepo) Update(invitation *model.GroupInvitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.invitations {
		if r.s.invitations[i].Uuid == invitation.Uuid {
			r.s.invitations[i] = *invitation
			return nil
		}
	}
	return notFound()
}

// ==================== 订单 ====================

type orderRepo struct{ s *store }

func (r *orderRepo) FindByUuid(uuid string) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.orders {
		if r.s.orders[i].Uuid == uuid {
			o := r.s.orders[i]
			return &o, nil
		}
	}
	return nil, notFound()
}

func (r *orderRepo) FindByGroupUuid(groupUuid string) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.Order, 0)
	for i := range r.s.orders {
		if r.s.orders[i].GroupUuid == groupUuid {
			result = append(result, r.s.orders[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *orderRepo) FindActiveByGroupUuid(groupUuid string) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.orders {
		o := &r.s.orders[i]
		if o.GroupUuid == groupUuid && !model.IsTerminalStatus(o.Status) {
			found := *o
			return &found, nil
		}
	}
	return nil, notFound()
}

func (r *orderRepo) FindByGroupAndStatus(groupUuid, status string) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.Order, 0)
	for i := range r.s.orders {
		if r.s.orders[i].GroupUuid == groupUuid && r.s.orders[i].Status == status {
			result = append(result, r.s.orders[i])
		}
	}
	return result, nil
}

func (r *orderRepo) Create(order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order.CreatedAt = time.Now()
	r.s.orders = append(r.s.orders, *order)
	return nil
}

func (r *orderRepo) Update(order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.orders {
		if r.s.orders[i].Uuid == order.Uuid {
			r.s.orders[i] = *order
			return nil
		}
	}
	return notFound()
}

// ==================== 订单明细 ====================

type itemRepo struct{ s *store }

func (r *itemRepo) FindByUuid(uuid string) (*model.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.items {
		if r.s.items[i].Uuid == uuid {
			item := r.s.items[i]
			return &item, nil
		}
	}
	return nil, notFound()
}

func (r *itemRepo) FindByOrderUuid(orderUuid string) ([]model.OrderItem, error) {
	return r.FindByOrderUuids([]string{orderUuid})
}

func (r *itemRepo) FindByOrderUuids(orderUuids []string) ([]model.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := make(map[string]struct{}, len(orderUuids))
	for _, id := range orderUuids {
		set[id] = struct{}{}
	}
	result := make([]model.OrderItem, 0)
	for i := range r.s.items {
		if _, ok := set[r.s.items[i].OrderUuid]; ok {
			result = append(result, r.s.items[i])
		}
	}
	return result, nil
}

func (r *itemRepo) Create(item *model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.CreatedAt = time.Now()
	r.s.items = append(r.s.items, *item)
	return nil
}

func (r *itemRepo) Update(item *model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.items {
		if r.s.items[i].Uuid == item.Uuid {
			r.s.items[i] = *item
			return nil
		}
	}
	return notFound()
}

func (r *itemRepo) Delete(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.items {
		if r.s.items[i].Uuid == uuid {
			r.s.items = append(r.s.items[:i], r.s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// ==================== 余额 ====================

type balanceRepo struct{ s *store }

func (r *balanceRepo) FindByGroupAndUser(groupUuid, userUuid string) (*model.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.balances {
		if r.s.balances[i].GroupUuid == groupUuid && r.s.balances[i].UserUuid == userUuid {
			b := r.s.balances[i]
			return &b, nil
		}
	}
	return nil, notFound()
}

func (r *balanceRepo) FindByGroupAndUserForUpdate(groupUuid, userUuid string) (*model.Balance, error) {
	return r.FindByGroupAndUser(groupUuid, userUuid)
}

func (r *balanceRepo) FindByGroupUuid(groupUuid string) ([]model.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.Balance, 0)
	for i := range r.s.balances {
		if r.s.balances[i].GroupUuid == groupUuid {
			result = append(result, r.s.balances[i])
		}
	}
	return result, nil
}

func (r *balanceRepo) Create(balance *model.Balance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance.CreatedAt = time.Now()
	r.s.balances = append(r.s.balances, *balance)
	return nil
}

func (r *balanceRepo) Update(balance *model.Balance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.balances {
		if r.s.balances[i].Uuid == balance.Uuid {
			r.s.balances[i] = *balance
			return nil
		}
	}
	return notFound()
}

// ==================== 余额流水 ====================

type historyRepo struct{ s *store }

func (r *historyRepo) FindByBalanceUuid(balanceUuid string) ([]model.BalanceHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.BalanceHistory, 0)
	for i := range r.s.histories {
		if r.s.histories[i].BalanceUuid == balanceUuid {
			result = append(result, r.s.histories[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *historyRepo) Create(history *model.BalanceHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	history.CreatedAt = time.Now()
	r.s.histories = append(r.s.histories, *history)
	return nil
}

// ==================== 餐厅与菜品 ====================

type restaurantRepo struct{ s *store }

func (r *restaurantRepo) FindByUuid(uuid string) (*model.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.restaurants {
		if r.s.restaurants[i].Uuid == uuid {
			rst := r.s.restaurants[i]
			return &rst, nil
		}
	}
	return nil, notFound()
}

func (r *restaurantRepo) FindByGroupUuid(groupUuid string) ([]model.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.Restaurant, 0)
	for i := range r.s.restaurants {
		if r.s.restaurants[i].GroupUuid == groupUuid {
			result = append(result, r.s.restaurants[i])
		}
	}
	return result, nil
}

func (r *restaurantRepo) Create(restaurant *model.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	restaurant.CreatedAt = time.Now()
	r.s.restaurants = append(r.s.restaurants, *restaurant)
	return nil
}

type dishRepo struct{ s *store }

func (r *dishRepo) FindByRestaurantUuid(restaurantUuid string) ([]model.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.Dish, 0)
	for i := range r.s.dishes {
		if r.s.dishes[i].RestaurantUuid == restaurantUuid {
			result = append(result, r.s.dishes[i])
		}
	}
	return result, nil
}

func (r *dishRepo) FindByRestaurantAndName(restaurantUuid, name string) (*model.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.dishes {
		if r.s.dishes[i].RestaurantUuid == restaurantUuid && r.s.dishes[i].Name == name {
			d := r.s.dishes[i]
			return &d, nil
		}
	}
	return nil, notFound()
}

func (r *dishRepo) Create(dish *model.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dish.CreatedAt = time.Now()
	r.s.dishes = append(r.s.dishes, *dish)
	return nil
}

func (r *dishRepo) Update(dish *model.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.dishes {
		if r.s.dishes[i].Uuid == dish.Uuid {
			r.s.dishes[i] = *dish
			return nil
		}
	}
	return notFound()
}
