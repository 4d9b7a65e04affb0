package controller

import (
	"errors"
	"strconv"

	"hopebridge_backend/internal/service"
	"hopebridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// CreateIntent godoc
// @Summary 创建购课支付意向
// @Description 返回支付函数签发的 clientSecret，前端据此完成支付
// @Tags 支付
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response{data=client.PaymentIntentResponse} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/payment-intent [post]
func (c *PaymentController) CreateIntent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	intent, err := c.PaymentService.CreateCourseIntent(
		ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), "", claims.Email)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, intent)
}

// MyPayments godoc
// @Summary 我的支付记录
// @Description 按记录时间先后顺序返回
// @Tags 支付
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CoursePayment} "成功"
// @Router /api/payments [get]
func (c *PaymentController) MyPayments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	payments, err := c.PaymentService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, payments)
}

// ListPayments godoc
// @Summary 全部支付流水
// @Tags 支付管理
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码，默认 1"
// @Param   limit query int false "每页条数，默认 20"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/payments [get]
func (c *PaymentController) ListPayments(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	payments, total, err := c.PaymentService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: payments, Total: total, Page: page, Limit: limit})
}

// Refund godoc
// @Summary 标记退款
// @Description 只改状态，流水行永不删除
// @Tags 支付管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "流水 ID"
// @Success 200 {object} util.Response{data=model.CoursePayment} "成功"
// @Failure 404 {object} util.Response "流水不存在"
// @Router /api/admin/payments/{id}/refund [post]
func (c *PaymentController) Refund(ctx *gin.Context) {
	payment, err := c.PaymentService.MarkRefunded(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrPaymentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, payment)
}
