package controller

import (
	"errors"
	"strconv"

	"hopebridge_backend/internal/service"
	"hopebridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DonationController struct {
	DonationService *service.DonationService
}

func NewDonationController(donationService *service.DonationService) *DonationController {
	return &DonationController{DonationService: donationService}
}

// Donate godoc
// @Summary 发起捐赠
// @Description 公开接口；登录用户的捐赠会关联其账号。返回支付 clientSecret。
// @Tags 捐赠
// @Accept  json
// @Produce  json
// @Param   body body service.DonateRequest true "捐赠信息"
// @Success 201 {object} util.Response{data=service.DonateResponse} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "支付函数不可用"
// @Router /api/donations [post]
func (c *DonationController) Donate(ctx *gin.Context) {
	var req service.DonateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
	}

	resp, err := c.DonationService.Donate(ctx.Request.Context(), userID, &req)
	if err != nil {
		util.Error(ctx, 502, "支付服务暂不可用，请稍后重试")
		return
	}
	util.Created(ctx, resp)
}

// ConfirmRequest 支付回调确认
type ConfirmRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
}

// Confirm godoc
// @Summary 确认捐赠到账
// @Description 支付回调调用；重复确认幂等
// @Tags 捐赠
// @Accept  json
// @Produce  json
// @Param   body body ConfirmRequest true "支付 ID"
// @Success 200 {object} util.Response{data=model.Donation} "成功"
// @Failure 404 {object} util.Response "捐赠不存在"
// @Router /api/donations/confirm [post]
func (c *DonationController) Confirm(ctx *gin.Context) {
	var req ConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	donation, err := c.DonationService.Confirm(req.PaymentID)
	if err != nil {
		if errors.Is(err, util.ErrDonationNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, donation)
}

// Total godoc
// @Summary 累计捐赠金额
// @Description 公开接口，用于首页进度条展示
// @Tags 捐赠
// @Produce  json
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/donations/total [get]
func (c *DonationController) Total(ctx *gin.Context) {
	total, err := c.DonationService.TotalRaised()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"total": total})
}

// ListDonations godoc
// @Summary 捐赠记录列表
// @Tags 捐赠管理
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码，默认 1"
// @Param   limit query int false "每页条数，默认 20"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/donations [get]
func (c *DonationController) ListDonations(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	donations, total, err := c.DonationService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: donations, Total: total, Page: page, Limit: limit})
}
