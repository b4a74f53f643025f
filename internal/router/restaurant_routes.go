// Package router 提供 HTTP 路由注册
// 本文件定义餐馆相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRestaurantRoutes 注册餐馆相关路由（需要认证）
// 餐馆创建与菜品查看（菜品由拼单结算自动沉淀）
func (rt *Router) RegisterRestaurantRoutes(rg *gin.RouterGroup) {
	restaurantGroup := rg.Group("/restaurant")
	{
		restaurantGroup.POST("/create", rt.handlers.Restaurant.CreateRestaurant) // 创建餐馆
		restaurantGroup.GET("/list", rt.handlers.Restaurant.ListRestaurants)     // 餐馆列表
		restaurantGroup.GET("/dishes", rt.handlers.Restaurant.ListDishes)        // 菜品列表
	}
}
