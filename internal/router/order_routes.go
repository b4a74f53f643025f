// Package router 提供 HTTP 路由注册
// 本文件定义拼单相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterOrderRoutes 注册拼单相关路由（需要认证）
// 拼单生命周期、点餐条目与配送费
func (rt *Router) RegisterOrderRoutes(rg *gin.RouterGroup) {
	orderGroup := rg.Group("/order")
	{
		// ===== 拼单生命周期 =====
		orderGroup.POST("/create", rt.handlers.Order.CreateOrder)           // 发起拼单
		orderGroup.GET("/list", rt.handlers.Order.ListOrders)               // 拼单列表
		orderGroup.GET("/active", rt.handlers.Order.GetActiveOrder)         // 当前进行中的拼单
		orderGroup.GET("/detail", rt.handlers.Order.GetOrderDetail)         // 拼单详情
		orderGroup.POST("/updateStatus", rt.handlers.Order.UpdateStatus)    // 推进拼单状态
		orderGroup.POST("/setDeliveryFee", rt.handlers.Order.SetDeliveryFee) // 设置配送费

		// ===== 点餐条目 =====
		orderGroup.POST("/addItem", rt.handlers.Order.AddItem)       // 添加点餐条目
		orderGroup.POST("/updateItem", rt.handlers.Order.UpdateItem) // 修改点餐条目
		orderGroup.POST("/deleteItem", rt.handlers.Order.DeleteItem) // 删除点餐条目
	}
}
