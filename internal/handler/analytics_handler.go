// Package handler 提供 HTTP 请求处理器
// 本文件处理群组统计相关的 API 请求
package handler

import (
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 统计请求处理器
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler 创建统计处理器实例
// analyticsSvc: 统计服务接口
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// GroupSummary 群组拼单汇总
// GET /analytics/summary?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: respond.GroupSummaryRespond
func (h *AnalyticsHandler) GroupSummary(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.analyticsSvc.GroupSummary(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UserSpending 按成员的消费统计
// GET /analytics/spending?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: []respond.UserSpendingRespond
func (h *AnalyticsHandler) UserSpending(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.analyticsSvc.UserSpending(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PopularDishes 热门菜品排行
// GET /analytics/popularDishes?group_id=xxx&limit=10
// 查询参数: request.PopularDishesRequest
// 响应: []respond.PopularDishRespond
func (h *AnalyticsHandler) PopularDishes(c *gin.Context) {
	var req request.PopularDishesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.analyticsSvc.PopularDishes(currentUser(c), req.GroupId, req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
