package controller

import (
	"errors"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/service"
	"hopebridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary 免费报名课程
// @Description 幂等：同一学员重复报名返回已有记录
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// PurchaseRequest 购课确认请求；paymentId/orderId 来自支付回调，
// orderId 可缺省，由服务端补一个
type PurchaseRequest struct {
	Currency  string `json:"currency"`
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
}

// Purchase godoc
// @Summary 付费报名课程
// @Description 支付确认后调用：同一事务写入支付流水与报名记录。已报名学员不会被重复扣款。
// @Tags 报名
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Param   body body PurchaseRequest true "支付信息"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/purchase [post]
func (c *EnrollmentController) Purchase(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, payment, err := c.EnrollmentService.EnrollWithPayment(
		claims.UserID, util.MustParseUint(ctx.Param("id")), req.Currency, req.PaymentID, req.OrderID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"enrollment": enrollment, "payment": payment})
}

// MyEnrollments godoc
// @Summary 我的报名
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment} "成功"
// @Router /api/enrollments [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// CompleteLessonRequest 课时完成上报
type CompleteLessonRequest struct {
	TimeSpent int `json:"timeSpent"` // 秒
}

// CompleteLesson godoc
// @Summary 标记课时完成
// @Description 幂等：重复上报只累计学习时长，进度按去重后的完成数重算
// @Tags 报名
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时 ID"
// @Param   body body CompleteLessonRequest false "学习时长"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 403 {object} util.Response "未报名该课程"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id}/complete [post]
func (c *EnrollmentController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.CompleteLesson(claims.UserID, util.MustParseUint(ctx.Param("id")), req.TimeSpent)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Error(ctx, 403, "not enrolled in this course")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// GetEnrollment godoc
// @Summary 报名详情
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名 ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 404 {object} util.Response "报名不存在"
// @Router /api/enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.GetEnrollment(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	// 普通学员只能查看自己的报名
	if enrollment.StudentID != claims.UserID && claims.Role == model.Student {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, enrollment)
}

// Progress godoc
// @Summary 报名进度
// @Description 未知报名返回 0
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名 ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/enrollments/{id}/progress [get]
func (c *EnrollmentController) Progress(ctx *gin.Context) {
	progress := c.EnrollmentService.Progress(util.MustParseUint(ctx.Param("id")))
	util.Success(ctx, gin.H{"progress": progress})
}

// LessonProgress godoc
// @Summary 课时完成明细
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名 ID"
// @Success 200 {object} util.Response{data=[]model.LessonProgress} "成功"
// @Failure 404 {object} util.Response "报名不存在"
// @Router /api/enrollments/{id}/lessons [get]
func (c *EnrollmentController) LessonProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.EnrollmentService.LessonProgressList(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, list)
}

// Pause godoc
// @Summary 暂停学习
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名 ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 404 {object} util.Response "报名不存在"
// @Router /api/enrollments/{id}/pause [post]
func (c *EnrollmentController) Pause(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.Pause(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// Resume godoc
// @Summary 恢复学习
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名 ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 404 {object} util.Response "报名不存在"
// @Router /api/enrollments/{id}/resume [post]
func (c *EnrollmentController) Resume(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.Resume(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// CourseEnrollments godoc
// @Summary 课程报名名单
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/enrollments [get]
func (c *EnrollmentController) CourseEnrollments(ctx *gin.Context) {
	enrollments, err := c.EnrollmentService.ListByCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollments)
}
