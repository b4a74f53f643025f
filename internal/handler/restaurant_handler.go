// Package handler 提供 HTTP 请求处理器
// 本文件处理餐馆与菜品相关的 API 请求
package handler

import (
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/service"

	"github.com/gin-gonic/gin"
)

// RestaurantHandler 餐馆请求处理器
type RestaurantHandler struct {
	restaurantSvc service.RestaurantService
}

// NewRestaurantHandler 创建餐馆处理器实例
// restaurantSvc: 餐馆服务接口
func NewRestaurantHandler(restaurantSvc service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantSvc: restaurantSvc}
}

// CreateRestaurant 创建餐馆
// POST /restaurant/create
// 请求体: request.CreateRestaurantRequest
// 响应: respond.RestaurantRespond
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req request.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.restaurantSvc.CreateRestaurant(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListRestaurants 查看群组餐馆列表
// GET /restaurant/list?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: []respond.RestaurantRespond
func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.restaurantSvc.ListRestaurants(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListDishes 查看餐馆菜品列表
// GET /restaurant/dishes?group_id=xxx&restaurant_id=xxx
// 查询参数: request.DishListRequest
// 响应: []respond.DishRespond
func (h *RestaurantHandler) ListDishes(c *gin.Context) {
	var req request.DishListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.restaurantSvc.ListDishes(currentUser(c), req.GroupId, req.RestaurantId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
