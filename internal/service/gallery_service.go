package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"
	"hopebridge_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GalleryService struct {
	GalleryRepo *repository.GalleryRepository
	Storage     *StorageService
}

func NewGalleryService(galleryRepo *repository.GalleryRepository, storage *StorageService) *GalleryService {
	return &GalleryService{
		GalleryRepo: galleryRepo,
		Storage:     storage,
	}
}

// UploadImage 校验图片后缀与真实 MIME 类型后入库
func (s *GalleryService) UploadImage(ctx context.Context, uploaderID uint, title, album string, fh *multipart.FileHeader) (*model.GalleryItem, error) {
	if !util.HasExtension(fh.Filename, util.AllowedImageExtensions) {
		return nil, util.ErrInvalidImageExt
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return nil, util.ErrInvalidImageExt
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := filepath.Ext(fh.Filename)
	filename := fmt.Sprintf("gallery/%s%s", util.GenerateRandomString(16), ext)

	url, err := s.Storage.Upload(ctx, filename, src, fh.Size, mimeType)
	if err != nil {
		return nil, err
	}

	item := &model.GalleryItem{
		Title:       title,
		Album:       album,
		Kind:        model.MediaImage,
		URL:         url,
		Size:        fh.Size,
		ContentType: mimeType,
		UploaderID:  uploaderID,
	}
	if err := s.GalleryRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UploadVideo 视频先落临时文件，用 ffprobe 探测时长并抓帧生成缩略图，
// 再把视频与缩略图一并上传。缩略图失败不阻断上传。
func (s *GalleryService) UploadVideo(ctx context.Context, uploaderID uint, title, album string, fh *multipart.FileHeader) (*model.GalleryItem, error) {
	if !util.HasExtension(fh.Filename, util.AllowedVideoExtensions) {
		return nil, util.ErrInvalidVideoExt
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	if err != nil {
		return nil, util.ErrInvalidVideoExt
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := filepath.Ext(fh.Filename)
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	var duration float64
	if info, err := util.GetVideoInfo(tmpPath); err == nil {
		duration = info.Duration
	} else {
		logger.Log.Warn("Failed to probe video", zap.String("file", fh.Filename), zap.Error(err))
	}

	base := util.GenerateRandomString(16)
	filename := fmt.Sprintf("gallery/%s%s", base, ext)

	url, err := s.Storage.UploadFile(ctx, filename, tmpPath, mimeType)
	if err != nil {
		return nil, err
	}

	thumbnailURL := ""
	thumbPath := filepath.Join(os.TempDir(), base+".jpg")
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err == nil {
		defer os.Remove(thumbPath)
		thumbName := fmt.Sprintf("gallery/thumbs/%s.jpg", base)
		if u, err := s.Storage.UploadFile(ctx, thumbName, thumbPath, "image/jpeg"); err == nil {
			thumbnailURL = u
		}
	} else {
		logger.Log.Warn("Failed to generate video thumbnail", zap.String("file", fh.Filename), zap.Error(err))
	}

	item := &model.GalleryItem{
		Title:        title,
		Album:        album,
		Kind:         model.MediaVideo,
		URL:          url,
		ThumbnailURL: thumbnailURL,
		DurationSec:  duration,
		Size:         fh.Size,
		ContentType:  mimeType,
		UploaderID:   uploaderID,
	}
	if err := s.GalleryRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除条目并移除存储中的对象；对象删除失败只记日志
func (s *GalleryService) Delete(ctx context.Context, id uint) error {
	item, err := s.GalleryRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrGalleryItemNotFound
	} else if err != nil {
		return err
	}

	if err := s.GalleryRepo.Delete(id); err != nil {
		return err
	}

	for _, u := range []string{item.URL, item.ThumbnailURL} {
		if u == "" {
			continue
		}
		if err := s.Storage.Delete(ctx, objectNameFromURL(u)); err != nil {
			logger.Log.Warn("Failed to remove stored object", zap.String("url", u), zap.Error(err))
		}
	}
	return nil
}

func (s *GalleryService) Get(id uint) (*model.GalleryItem, error) {
	item, err := s.GalleryRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGalleryItemNotFound
	}
	return item, err
}

func (s *GalleryService) List(album string) ([]model.GalleryItem, error) {
	return s.GalleryRepo.List(album)
}

func (s *GalleryService) Albums() ([]string, error) {
	return s.GalleryRepo.Albums()
}

// objectNameFromURL 从存储 URL 还原对象名：去掉 "/uploads/" 或 "/<bucket>/" 前缀
func objectNameFromURL(u string) string {
	trimmed := strings.TrimPrefix(u, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
