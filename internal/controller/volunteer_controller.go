package controller

import (
	"errors"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/service"
	"hopebridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VolunteerController struct {
	VolunteerService *service.VolunteerService
}

func NewVolunteerController(volunteerService *service.VolunteerService) *VolunteerController {
	return &VolunteerController{VolunteerService: volunteerService}
}

// Apply godoc
// @Summary 提交志愿者申请
// @Description 公开接口；同一邮箱存在未审结申请时返回 409
// @Tags 志愿者
// @Accept  json
// @Produce  json
// @Param   body body service.ApplyRequest true "申请信息"
// @Success 201 {object} util.Response{data=model.VolunteerApplication} "提交成功"
// @Failure 409 {object} util.Response "已有未审结申请"
// @Router /api/volunteers/apply [post]
func (c *VolunteerController) Apply(ctx *gin.Context) {
	var req service.ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	app, err := c.VolunteerService.Apply(&req)
	if err != nil {
		if errors.Is(err, util.ErrApplicationExists) {
			util.Error(ctx, 409, "该邮箱已有待审核的申请")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, app)
}

// ReviewRequest 审核结论
type ReviewRequest struct {
	Approve bool `json:"approve"`
}

// Review godoc
// @Summary 审核志愿者申请
// @Description 审核结果会异步邮件通知申请人
// @Tags 志愿者管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "申请 ID"
// @Param   body body ReviewRequest true "审核结论"
// @Success 200 {object} util.Response{data=model.VolunteerApplication} "成功"
// @Failure 404 {object} util.Response "申请不存在"
// @Router /api/admin/volunteers/{id}/review [post]
func (c *VolunteerController) Review(ctx *gin.Context) {
	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	app, err := c.VolunteerService.Review(util.MustParseUint(ctx.Param("id")), req.Approve)
	if err != nil {
		if errors.Is(err, util.ErrApplicationNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, app)
}

// ListApplications godoc
// @Summary 志愿者申请列表
// @Tags 志愿者管理
// @Produce  json
// @Security BearerAuth
// @Param   status query string false "按状态过滤：pending/approved/rejected"
// @Success 200 {object} util.Response{data=[]model.VolunteerApplication} "成功"
// @Router /api/admin/volunteers [get]
func (c *VolunteerController) ListApplications(ctx *gin.Context) {
	apps, err := c.VolunteerService.List(model.ApplicationStatus(ctx.Query("status")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, apps)
}
