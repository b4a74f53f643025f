// Package handler 提供 HTTP 请求处理器
// 本文件处理拼单与点餐条目相关的 API 请求
package handler

import (
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderHandler 拼单请求处理器
type OrderHandler struct {
	orderSvc service.OrderService
}

// NewOrderHandler 创建拼单处理器实例
// orderSvc: 拼单服务接口
func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// CreateOrder 发起拼单
// POST /order/create
// 请求体: request.CreateOrderRequest
// 响应: respond.OrderRespond
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.CreateOrder(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListOrders 查看群组拼单列表
// GET /order/list?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: []respond.OrderRespond
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.ListOrders(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetActiveOrder 获取当前进行中的拼单
// GET /order/active?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: respond.OrderDetailRespond，无进行中拼单时 data 为 null
func (h *OrderHandler) GetActiveOrder(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.GetActiveOrder(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetOrderDetail 获取拼单详情（含点餐条目）
// GET /order/detail?group_id=xxx&order_id=xxx
// 查询参数: request.OrderQueryRequest
// 响应: respond.OrderDetailRespond
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	var req request.OrderQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.GetOrderDetail(currentUser(c), req.GroupId, req.OrderId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateStatus 推进拼单状态（finished 触发结算）
// POST /order/updateStatus
// 请求体: request.UpdateOrderStatusRequest
// 响应: respond.OrderRespond
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.UpdateStatus(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SetDeliveryFee 设置配送费（总额与人均二选一）
// POST /order/setDeliveryFee
// 请求体: request.SetDeliveryFeeRequest
// 响应: respond.OrderRespond
func (h *OrderHandler) SetDeliveryFee(c *gin.Context) {
	var req request.SetDeliveryFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.SetDeliveryFee(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AddItem 添加点餐条目（可代点）
// POST /order/addItem
// 请求体: request.AddOrderItemRequest
// 响应: respond.OrderItemRespond
func (h *OrderHandler) AddItem(c *gin.Context) {
	var req request.AddOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.AddItem(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateItem 修改点餐条目
// POST /order/updateItem
// 请求体: request.UpdateOrderItemRequest
// 响应: respond.OrderItemRespond
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	var req request.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.orderSvc.UpdateItem(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteItem 删除点餐条目
// POST /order/deleteItem
// 请求体: request.DeleteOrderItemRequest
// 响应: nil
func (h *OrderHandler) DeleteItem(c *gin.Context) {
	var req request.DeleteOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.orderSvc.DeleteItem(currentUser(c), req.GroupId, req.OrderId, req.ItemId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
