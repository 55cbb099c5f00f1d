package model

import "time"

// 预置模板的保留 Key，所有用户可用且禁止删除
const (
	TemplateKeyDefault = "default" // 麻醉前评估模板
	TemplateKeyNote    = "note"    // 问诊笔记模板
)

// Form 表单/模板表
// IsTemplate 为 true 时是可复用的模板，否则是具体的病历表单
type Form struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index;not null"`
	Name            string    `json:"name" gorm:"size:255;not null"`
	IsTemplate      bool      `json:"is_template" gorm:"index;default:false"`
	Key             string    `json:"key" gorm:"size:50;default:''"`          // 模板标识，如 default, note；普通表单为空
	TemplateKey     string    `json:"template_key" gorm:"size:50;default:''"` // 来源模板的 Key（弱引用，仅用于查找）
	GeneralAIPrompt string    `json:"general_ai_prompt" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Sections        []Section `json:"sections,omitempty" gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE;"`
}

// Section 表单分区表
// SectionKey 在同一表单内唯一，是转写结果回填时的匹配键
type Section struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FormID     uint      `json:"form_id" gorm:"index;not null"`
	SectionKey string    `json:"section_key" gorm:"size:64;not null"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	Content    string    `json:"content" gorm:"type:text"`
	Summary    string    `json:"summary" gorm:"type:text"` // AI 生成的摘要或诊断建议，独立于 Content
	AIPrompt   string    `json:"ai_prompt" gorm:"type:text"`
	SortOrder  int       `json:"sort_order" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsBuiltinKey 判断是否为预置模板的保留 Key
func IsBuiltinKey(key string) bool {
	return key == TemplateKeyDefault || key == TemplateKeyNote
}
