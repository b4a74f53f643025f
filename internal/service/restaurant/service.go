// Package restaurant 餐馆与菜品业务逻辑
// 菜品主要由拼单结算自动沉淀，这里提供餐馆创建与读侧
package restaurant

import (
	"fmt"

	"go.uber.org/zap"

	"dingcan_server/internal/dao/mysql/repository"
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/dto/respond"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service/guard"
	"dingcan_server/pkg/errorx"
	"dingcan_server/pkg/util/random"
)

type restaurantService struct {
	repos *repository.Repositories
}

// NewRestaurantService 创建餐馆 Service 实例
func NewRestaurantService(repos *repository.Repositories) *restaurantService {
	return &restaurantService{repos: repos}
}

// CreateRestaurant 创建餐馆，需要 restaurants editor 权限
func (r *restaurantService) CreateRestaurant(actor *model.UserInfo, req request.CreateRestaurantRequest) (*respond.RestaurantRespond, error) {
	member, perms, err := guard.LoadMembership(r.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceRestaurants, model.ScopeEditor); err != nil {
		return nil, err
	}

	restaurant := &model.Restaurant{
		Uuid:      fmt.Sprintf("R%s", random.GetNowAndLenRandomString(13)),
		GroupUuid: req.GroupId,
		Name:      req.Name,
		Phone:     req.Phone,
		Note:      req.Note,
	}
	if err = r.repos.Restaurant.Create(restaurant); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return toRestaurantRespond(restaurant), nil
}

// ListRestaurants 查看群组餐馆列表，需要 restaurants viewer 及以上权限
func (r *restaurantService) ListRestaurants(actor *model.UserInfo, groupId string) ([]respond.RestaurantRespond, error) {
	member, perms, err := guard.LoadMembership(r.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceRestaurants, model.ScopeViewer, model.ScopeEditor); err != nil {
		return nil, err
	}

	restaurants, err := r.repos.Restaurant.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.RestaurantRespond, 0, len(restaurants))
	for i := range restaurants {
		rsp = append(rsp, *toRestaurantRespond(&restaurants[i]))
	}
	return rsp, nil
}

// ListDishes 查看餐馆菜品列表，需要 restaurants viewer 及以上权限
func (r *restaurantService) ListDishes(actor *model.UserInfo, groupId, restaurantId string) ([]respond.DishRespond, error) {
	member, perms, err := guard.LoadMembership(r.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceRestaurants, model.ScopeViewer, model.ScopeEditor); err != nil {
		return nil, err
	}

	restaurant, err := r.repos.Restaurant.FindByUuid(restaurantId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "餐厅不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if restaurant.GroupUuid != groupId {
		return nil, errorx.New(errorx.CodeNotFound, "餐厅不存在")
	}

	dishes, err := r.repos.Dish.FindByRestaurantUuid(restaurantId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.DishRespond, 0, len(dishes))
	for _, d := range dishes {
		rsp = append(rsp, respond.DishRespond{
			Uuid:   d.Uuid,
			Name:   d.Name,
			Detail: d.Detail,
			Price:  d.Price.StringFixed(2),
		})
	}
	return rsp, nil
}

func toRestaurantRespond(restaurant *model.Restaurant) *respond.RestaurantRespond {
	return &respond.RestaurantRespond{
		Uuid:    restaurant.Uuid,
		GroupId: restaurant.GroupUuid,
		Name:    restaurant.Name,
		Phone:   restaurant.Phone,
		Note:    restaurant.Note,
	}
}
