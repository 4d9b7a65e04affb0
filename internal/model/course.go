package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

// Course 课程，独占其下的章节与课时
// swagger:model Course
type Course struct {
	BaseModel
	Title         string      `gorm:"size:255;not null" json:"title"`
	ShortDesc     string      `gorm:"size:500" json:"shortDesc"`
	Description   string      `gorm:"type:text" json:"description"`
	DurationLabel string      `gorm:"size:50" json:"durationLabel"` // 展示用时长文案，如 "6 weeks"
	Level         CourseLevel `gorm:"size:20;default:'beginner'" json:"level"`
	Instructor    string      `gorm:"size:100" json:"instructor"`
	InstructorBio string      `gorm:"type:text" json:"instructorBio"`
	ImageURL      string      `gorm:"size:255" json:"imageUrl"`
	Price         int64       `gorm:"default:0" json:"price"` // 最小货币单位，0 表示免费
	Published     bool        `gorm:"default:false" json:"published"`
	Featured      bool        `gorm:"default:false" json:"featured"`
	Category      string      `gorm:"size:100;index" json:"category"`

	Modules []CourseModule `gorm:"foreignKey:CourseID" json:"modules"`

	// 派生聚合：课时变更时重算
	TotalLessons  int `gorm:"default:0" json:"totalLessons"`
	TotalDuration int `gorm:"default:0" json:"totalDuration"` // 分钟
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule 章节，SortOrder 决定展示顺序（不要求唯一）
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID    uint     `gorm:"index;not null" json:"courseId"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	SortOrder   int      `gorm:"default:0" json:"sortOrder"`
	Lessons     []Lesson `gorm:"foreignKey:ModuleID" json:"lessons"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type LessonKind string

const (
	LessonVideo      LessonKind = "video"
	LessonText       LessonKind = "text"
	LessonQuiz       LessonKind = "quiz"
	LessonAssignment LessonKind = "assignment"
)

// Lesson 课时；quiz 类型的 Content 为序列化的题目列表
// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID    uint       `gorm:"index;not null" json:"moduleId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Kind        LessonKind `gorm:"size:20;default:'text'" json:"kind"`
	Content     string     `gorm:"type:text" json:"content"`
	VideoURL    string     `gorm:"size:255" json:"videoUrl"`
	DurationMin int        `gorm:"default:0" json:"durationMin"`
	SortOrder   int        `gorm:"default:0" json:"sortOrder"`
	IsPreview   bool       `gorm:"default:false" json:"isPreview"` // 免登录可看，策略由前端执行
}

func (Lesson) TableName() string {
	return "lessons"
}

// QuizQuestion quiz 课时 Content 字段的单条题目结构
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}
