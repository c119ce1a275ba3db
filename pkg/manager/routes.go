package manager

import "github.com/gin-gonic/gin"

// RegisterAllRoutes 装配整个服务的路由：开放接口与内部接口都挂在 /api 下
// （内部接口由各控制器自行加 inner 前缀），调试与运维接口各占一组。
func RegisterAllRoutes(router *gin.Engine) {
	openApiGroup := router.Group("/api")
	innerApiGroup := router.Group("/api")
	debugApiGroup := router.Group("/debug")
	opsApiGroup := router.Group("/ops")

	MustInitControllers(openApiGroup, innerApiGroup, debugApiGroup, opsApiGroup)
}
