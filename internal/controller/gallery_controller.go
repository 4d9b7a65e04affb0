package controller

import (
	"errors"

	"hopebridge_backend/internal/service"
	"hopebridge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GalleryController struct {
	GalleryService *service.GalleryService
}

func NewGalleryController(galleryService *service.GalleryService) *GalleryController {
	return &GalleryController{GalleryService: galleryService}
}

// ListItems godoc
// @Summary 媒体库列表
// @Tags 媒体库
// @Produce  json
// @Param   album query string false "按相册过滤"
// @Success 200 {object} util.Response{data=[]model.GalleryItem} "成功"
// @Router /api/gallery [get]
func (c *GalleryController) ListItems(ctx *gin.Context) {
	items, err := c.GalleryService.List(ctx.Query("album"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// Albums godoc
// @Summary 相册列表
// @Tags 媒体库
// @Produce  json
// @Success 200 {object} util.Response{data=[]string} "成功"
// @Router /api/gallery/albums [get]
func (c *GalleryController) Albums(ctx *gin.Context) {
	albums, err := c.GalleryService.Albums()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, albums)
}

// UploadImage godoc
// @Summary 上传图片
// @Description 支持 PNG/JPG/WEBP，按文件头做真实类型校验
// @Tags 媒体库管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "图片文件"
// @Param   title formData string false "标题"
// @Param   album formData string false "相册"
// @Success 201 {object} util.Response{data=model.GalleryItem} "上传成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/admin/gallery/images [post]
func (c *GalleryController) UploadImage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}

	item, err := c.GalleryService.UploadImage(ctx.Request.Context(), claims.UserID,
		ctx.PostForm("title"), ctx.PostForm("album"), fh)
	if err != nil {
		if errors.Is(err, util.ErrInvalidImageExt) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, item)
}

// UploadVideo godoc
// @Summary 上传视频
// @Description 上传时探测时长并生成缩略图
// @Tags 媒体库管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "视频文件"
// @Param   title formData string false "标题"
// @Param   album formData string false "相册"
// @Success 201 {object} util.Response{data=model.GalleryItem} "上传成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/admin/gallery/videos [post]
func (c *GalleryController) UploadVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}

	item, err := c.GalleryService.UploadVideo(ctx.Request.Context(), claims.UserID,
		ctx.PostForm("title"), ctx.PostForm("album"), fh)
	if err != nil {
		if errors.Is(err, util.ErrInvalidVideoExt) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, item)
}

// DeleteItem godoc
// @Summary 删除媒体
// @Description 同时移除存储中的文件与缩略图
// @Tags 媒体库管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "媒体 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "媒体不存在"
// @Router /api/admin/gallery/{id} [delete]
func (c *GalleryController) DeleteItem(ctx *gin.Context) {
	if err := c.GalleryService.Delete(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrGalleryItemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
