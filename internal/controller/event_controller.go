package controller

import (
	"errors"

	"hopebridge_backend/internal/service"
	"hopebridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// ListEvents godoc
// @Summary 活动列表
// @Description 公开接口返回已发布且未结束的活动
// @Tags 活动
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Event} "成功"
// @Router /api/events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	events, err := c.EventService.ListUpcoming()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// ListAllEvents godoc
// @Summary 全部活动（含草稿与已结束）
// @Tags 活动管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Event} "成功"
// @Router /api/admin/events [get]
func (c *EventController) ListAllEvents(ctx *gin.Context) {
	events, err := c.EventService.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// GetEvent godoc
// @Summary 活动详情
// @Tags 活动
// @Produce  json
// @Param   id path int true "活动 ID"
// @Success 200 {object} util.Response{data=model.Event} "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	event, err := c.EventService.GetEvent(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, event)
}

// CreateEvent godoc
// @Summary 创建活动
// @Tags 活动管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.EventRequest true "活动信息"
// @Success 201 {object} util.Response{data=model.Event} "创建成功"
// @Router /api/admin/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req service.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.EventService.CreateEvent(&req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// UpdateEvent godoc
// @Summary 更新活动
// @Tags 活动管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动 ID"
// @Param   body body service.EventRequest true "活动信息"
// @Success 200 {object} util.Response{data=model.Event} "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/admin/events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	var req service.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.EventService.UpdateEvent(util.MustParseUint(ctx.Param("id")), &req)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, event)
}

// DeleteEvent godoc
// @Summary 删除活动
// @Tags 活动管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/admin/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	if err := c.EventService.DeleteEvent(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Register godoc
// @Summary 报名活动
// @Description 幂等；有容量限制的活动满员后返回 409
// @Tags 活动
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动 ID"
// @Success 200 {object} util.Response{data=model.EventRegistration} "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Failure 409 {object} util.Response "名额已满或活动未发布"
// @Router /api/events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	reg, err := c.EventService.Register(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEventNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEventFull):
			util.Error(ctx, 409, "活动名额已满")
		case errors.Is(err, util.ErrEventNotPublished):
			util.Error(ctx, 409, "活动尚未开放报名")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, reg)
}

// CancelRegistration godoc
// @Summary 取消活动报名
// @Tags 活动
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/events/{id}/register [delete]
func (c *EventController) CancelRegistration(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.EventService.Cancel(util.MustParseUint(ctx.Param("id")), claims.UserID); err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Attendees godoc
// @Summary 活动报名名单
// @Tags 活动管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "活动 ID"
// @Success 200 {object} util.Response{data=[]model.EventRegistration} "成功"
// @Failure 404 {object} util.Response "活动不存在"
// @Router /api/admin/events/{id}/attendees [get]
func (c *EventController) Attendees(ctx *gin.Context) {
	regs, err := c.EventService.Attendees(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, regs)
}
