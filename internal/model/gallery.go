package model

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// GalleryItem 媒体库条目；视频在上传时探测时长并生成缩略图
// swagger:model GalleryItem
type GalleryItem struct {
	BaseModel
	Title        string    `gorm:"size:255" json:"title"`
	Album        string    `gorm:"size:100;index" json:"album"`
	Kind         MediaKind `gorm:"size:10;not null" json:"kind"`
	URL          string    `gorm:"size:255;not null" json:"url"`
	ThumbnailURL string    `gorm:"size:255" json:"thumbnailUrl"`
	DurationSec  float64   `gorm:"default:0" json:"durationSec"` // 仅视频
	Size         int64     `gorm:"default:0" json:"size"`
	ContentType  string    `gorm:"size:100" json:"contentType"`
	UploaderID   uint      `gorm:"index" json:"uploaderId"`
}

func (GalleryItem) TableName() string {
	return "gallery_items"
}
