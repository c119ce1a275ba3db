package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamzaalmahdi/civitai/ddd/application/app"
	"github.com/hamzaalmahdi/civitai/ddd/application/cqe"
	"github.com/hamzaalmahdi/civitai/pkg/assert"
	"github.com/hamzaalmahdi/civitai/pkg/errno"
	"github.com/hamzaalmahdi/civitai/pkg/logger"
	"github.com/hamzaalmahdi/civitai/pkg/manager"
	"github.com/hamzaalmahdi/civitai/pkg/restapi"
	"github.com/hamzaalmahdi/civitai/pkg/sse"
)

var (
	notificationControllerOnce sync.Once
	singletonNotificationCtrl  NotificationController
)

// NotificationControllerPlugin 将通知控制器注册到共享的 manager 中。
type NotificationControllerPlugin struct{}

func (p *NotificationControllerPlugin) Name() string {
	return "notificationController"
}

func (p *NotificationControllerPlugin) MustCreateController() manager.Controller {
	assert.NotCircular()
	notificationControllerOnce.Do(func() {
		singletonNotificationCtrl = &notificationControllerImpl{
			app: app.DefaultNotificationApp(),
		}
	})
	assert.NotNil(singletonNotificationCtrl)
	return singletonNotificationCtrl
}

// NotificationController 控制器接口。
type NotificationController interface {
	manager.Controller
	List(ctx *gin.Context)
	Count(ctx *gin.Context)
	MarkRead(ctx *gin.Context)
	Create(ctx *gin.Context)
	ListSettings(ctx *gin.Context)
	CreateSetting(ctx *gin.Context)
	DeleteSetting(ctx *gin.Context)
	Stream(ctx *gin.Context)
}

type notificationControllerImpl struct {
	manager.Controller
	app app.NotificationApp
}

// RegisterOpenApi 暂无开放通知接口。
func (c *notificationControllerImpl) RegisterOpenApi(group *gin.RouterGroup) {}

// RegisterInnerApi 注册内部通知接口（网关 inner 路由访问）。
func (c *notificationControllerImpl) RegisterInnerApi(group *gin.RouterGroup) {
	v1 := group.Group("notification/v1/inner")
	{
		v1.GET("/notifications", c.List)
		v1.GET("/notifications/count", c.Count)
		v1.POST("/notifications/read", c.MarkRead)
		v1.POST("/notifications", c.Create)
		v1.GET("/notifications/settings", c.ListSettings)
		v1.POST("/notifications/settings", c.CreateSetting)
		v1.POST("/notifications/settings/delete", c.DeleteSetting)
		v1.GET("/notifications/stream", c.Stream)
	}
}

func (c *notificationControllerImpl) RegisterDebugApi(group *gin.RouterGroup) {}

// RegisterOpsApi 暴露 Prometheus 指标。
func (c *notificationControllerImpl) RegisterOpsApi(group *gin.RouterGroup) {
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// extractUserID 解析网关注入的用户标识。通知服务自身不做鉴权，
// 只校验参数是否完整。
func (c *notificationControllerImpl) extractUserID(ctx *gin.Context) (int64, error) {
	raw := ctx.GetHeader("X-User-ID")
	if raw == "" {
		// Fallback for SSE where headers are hard to set; user_id can be passed via query.
		raw = ctx.Query("user_id")
	}
	if raw == "" {
		return 0, errno.NewSimpleBizError(errno.ErrParameterInvalid, nil, "user id")
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errno.NewSimpleBizError(errno.ErrParameterInvalid, err, "user id")
	}
	return userID, nil
}

// List 列出当前用户的通知，可选带上分类计数。
func (c *notificationControllerImpl) List(ctx *gin.Context) {
	userID, err := c.extractUserID(ctx)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	var req cqe.GetUserNotificationsReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, errno.NewSimpleBizError(errno.ErrParameterInvalid, err, "query"))
		return
	}
	resp, err := c.app.GetUserNotifications(ctx.Request.Context(), userID, &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// Count 返回当前用户按分类划分的通知数量。
func (c *notificationControllerImpl) Count(ctx *gin.Context) {
	userID, err := c.extractUserID(ctx)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	var req cqe.GetNotificationCountReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, errno.NewSimpleBizError(errno.ErrParameterInvalid, err, "query"))
		return
	}
	resp, err := c.app.GetUserNotificationCount(ctx.Request.Context(), userID, &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// MarkRead 将单条或整批通知标记为已读。
func (c *notificationControllerImpl) MarkRead(ctx *gin.Context) {
	userID, err := c.extractUserID(ctx)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	var req cqe.MarkReadReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewSimpleBizError(errno.ErrParameterInvalid, err, "body"))
		return
	}
	if err := c.app.MarkNotificationsRead(ctx.Request.Context(), userID, &req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"status": "ok"})
}

// Create 通过内部接口入队一条新通知，供站内其他服务调用。
func (c *notificationControllerImpl) Create(ctx *gin.Context) {
	var req cqe.CreateNotificationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewSimpleBizError(errno.ErrParameterInvalid, err, "body"))
		return
	}
	resp, err := c.app.CreateNotification(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ListSettings 返回当前用户的退订列表。
func (c *notificationControllerImpl) ListSettings(ctx *gin.Context) {
	userID, err := c.extractUserID(ctx)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	resp, err := c.app.ListUserNotificationSettings(ctx.Request.Context(), userID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// CreateSetting 退订一批通知类型。
func (c *notificationControllerImpl) CreateSetting(ctx *gin.Context) {
	userID, err := c.extractUserID(ctx)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	var req cqe.CreateUserNotificationSettingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewSimpleBizError(errno.ErrParameterInvalid, err, "body"))
		return
	}
	if err := c.app.CreateUserNotificationSetting(ctx.Request.Context(), userID, &req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"status": "ok"})
}

// DeleteSetting 恢复一批通知类型的接收。
func (c *notificationControllerImpl) DeleteSetting(ctx *gin.Context) {
	userID, err := c.extractUserID(ctx)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	var req cqe.DeleteUserNotificationSettingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewSimpleBizError(errno.ErrParameterInvalid, err, "body"))
		return
	}
	if err := c.app.DeleteUserNotificationSetting(ctx.Request.Context(), userID, &req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"status": "ok"})
}

// Stream establishes an SSE stream for the current user's notifications.
// Frontend should listen for "notification.created"/"notification.updated"
// events and trigger a notifications refresh on each event.
func (c *notificationControllerImpl) Stream(ctx *gin.Context) {
	userID, err := c.extractUserID(ctx)
	if err != nil {
		// 缺少 user_id 视为参数错误，而不是鉴权失败。
		restapi.FailedWithStatus(ctx, err, http.StatusBadRequest)
		return
	}

	// Prepare SSE headers.
	w := ctx.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.WithContext(ctx.Request.Context()).Errorf("notification: SSE stream does not support flushing user_id=%d", userID)
		restapi.FailedWithStatus(ctx, errno.ErrInternalServer, http.StatusInternalServerError)
		return
	}

	events, unsubscribe := sse.DefaultHub().Subscribe(userID)
	defer unsubscribe()

	// Initial comment to keep some proxies happy.
	if _, err := w.Write([]byte(": ok\n\n")); err == nil {
		flusher.Flush()
	}

	// Periodic heartbeat to keep long-lived connections from timing out on proxies.
	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	notify := ctx.Request.Context().Done()
	for {
		select {
		case <-notify:
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Data)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("event: " + ev.Type + "\n")); err != nil {
				return
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
