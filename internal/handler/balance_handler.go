// Package handler 提供 HTTP 请求处理器
// 本文件处理余额与流水相关的 API 请求
package handler

import (
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/service"

	"github.com/gin-gonic/gin"
)

// BalanceHandler 余额请求处理器
type BalanceHandler struct {
	balanceSvc service.BalanceService
}

// NewBalanceHandler 创建余额处理器实例
// balanceSvc: 余额服务接口
func NewBalanceHandler(balanceSvc service.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceSvc: balanceSvc}
}

// GetGroupBalances 查看群组全员余额
// GET /balance/groupList?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: []respond.BalanceRespond
func (h *BalanceHandler) GetGroupBalances(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.balanceSvc.GetGroupBalances(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMyBalance 查看本人余额（无账户时返回零值）
// GET /balance/my?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: respond.BalanceRespond
func (h *BalanceHandler) GetMyBalance(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.balanceSvc.GetMyBalance(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetBalanceHistory 查看某成员的余额流水
// GET /balance/history?group_id=xxx&user_id=xxx
// 查询参数: request.BalanceHistoryQueryRequest
// 响应: []respond.BalanceHistoryRespond
func (h *BalanceHandler) GetBalanceHistory(c *gin.Context) {
	var req request.BalanceHistoryQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.balanceSvc.GetBalanceHistory(currentUser(c), req.GroupId, req.UserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AdjustBalance 手工调整余额（充值/冲正）
// POST /balance/adjust
// 请求体: request.AdjustBalanceRequest
// 响应: respond.BalanceRespond
func (h *BalanceHandler) AdjustBalance(c *gin.Context) {
	var req request.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.balanceSvc.AdjustBalance(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
