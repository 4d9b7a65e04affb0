package controller

import (
	"errors"
	"strconv"

	"hopebridge_backend/internal/service"
	"hopebridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ShopController struct {
	ShopService *service.ShopService
}

func NewShopController(shopService *service.ShopService) *ShopController {
	return &ShopController{ShopService: shopService}
}

// ListProducts godoc
// @Summary 商品列表
// @Description 公开接口返回上架商品
// @Tags 商店
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Product} "成功"
// @Router /api/shop/products [get]
func (c *ShopController) ListProducts(ctx *gin.Context) {
	products, err := c.ShopService.ListProducts(false)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, products)
}

// ListAllProducts godoc
// @Summary 全部商品（含下架）
// @Tags 商店管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Product} "成功"
// @Router /api/admin/shop/products [get]
func (c *ShopController) ListAllProducts(ctx *gin.Context) {
	products, err := c.ShopService.ListProducts(true)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, products)
}

// CreateProduct godoc
// @Summary 创建商品
// @Tags 商店管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProductRequest true "商品信息"
// @Success 201 {object} util.Response{data=model.Product} "创建成功"
// @Router /api/admin/shop/products [post]
func (c *ShopController) CreateProduct(ctx *gin.Context) {
	var req service.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	product, err := c.ShopService.CreateProduct(&req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, product)
}

// UpdateProduct godoc
// @Summary 更新商品
// @Tags 商店管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "商品 ID"
// @Param   body body service.ProductRequest true "商品信息"
// @Success 200 {object} util.Response{data=model.Product} "成功"
// @Failure 404 {object} util.Response "商品不存在"
// @Router /api/admin/shop/products/{id} [put]
func (c *ShopController) UpdateProduct(ctx *gin.Context) {
	var req service.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	product, err := c.ShopService.UpdateProduct(util.MustParseUint(ctx.Param("id")), &req)
	if err != nil {
		if errors.Is(err, util.ErrProductNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, product)
}

// DeleteProduct godoc
// @Summary 删除商品
// @Tags 商店管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "商品 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "商品不存在"
// @Router /api/admin/shop/products/{id} [delete]
func (c *ShopController) DeleteProduct(ctx *gin.Context) {
	if err := c.ShopService.DeleteProduct(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrProductNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// CreateOrder godoc
// @Summary 下单
// @Description 库存校验与扣减在一个事务内完成；任一商品缺货整单失败
// @Tags 商店
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateOrderRequest true "订单条目"
// @Success 201 {object} util.Response{data=service.CreateOrderResponse} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "库存不足或商品不可售"
// @Router /api/shop/orders [post]
func (c *ShopController) CreateOrder(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.ShopService.CreateOrder(ctx.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyOrder):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrProductNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInsufficientStock), errors.Is(err, util.ErrProductInactive):
			util.Error(ctx, 409, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, resp)
}

// MarkPaidRequest 支付回调标记订单已支付
type MarkPaidRequest struct {
	OrderNo string `json:"orderNo" binding:"required"`
}

// MarkPaid godoc
// @Summary 确认订单支付
// @Description 支付回调调用；重复确认幂等
// @Tags 商店
// @Accept  json
// @Produce  json
// @Param   body body MarkPaidRequest true "订单号"
// @Success 200 {object} util.Response{data=model.Order} "成功"
// @Failure 404 {object} util.Response "订单不存在"
// @Router /api/shop/orders/confirm [post]
func (c *ShopController) MarkPaid(ctx *gin.Context) {
	var req MarkPaidRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	order, err := c.ShopService.MarkPaid(req.OrderNo)
	if err != nil {
		if errors.Is(err, util.ErrOrderNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, order)
}

// MyOrders godoc
// @Summary 我的订单
// @Tags 商店
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Order} "成功"
// @Router /api/shop/orders [get]
func (c *ShopController) MyOrders(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	orders, err := c.ShopService.ListMyOrders(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, orders)
}

// GetOrder godoc
// @Summary 订单详情
// @Tags 商店管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "订单 ID"
// @Success 200 {object} util.Response{data=model.Order} "成功"
// @Failure 404 {object} util.Response "订单不存在"
// @Router /api/admin/shop/orders/{id} [get]
func (c *ShopController) GetOrder(ctx *gin.Context) {
	order, err := c.ShopService.GetOrder(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrOrderNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, order)
}

// ListOrders godoc
// @Summary 全部订单
// @Tags 商店管理
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码，默认 1"
// @Param   limit query int false "每页条数，默认 20"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/shop/orders [get]
func (c *ShopController) ListOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := c.ShopService.ListOrders(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: orders, Total: total, Page: page, Limit: limit})
}
