package repository

import (
	"errors"

	"github.com/bonicascribe/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type FormRepository interface {
	Create(form *model.Form) error
	// Get 获取用户的表单（含按 SortOrder 排序的分区）
	Get(userID, id uint) (*model.Form, error)
	ListForms(userID uint) ([]model.Form, error)
	ListTemplates(userID uint) ([]model.Form, error)
	// CountForms 统计用户的非模板表单数量，用于配额检查
	CountForms(userID uint) (int64, error)
	// Save 保存表单及其分区，分区列表以传入的为准（被移除的分区会删除）
	Save(form *model.Form) error
	Delete(userID, id uint) error
	GetTemplateByKey(userID uint, key string) (*model.Form, error)
	// UpsertTemplate 按 (userID, key) 幂等写入模板，用于预置模板落库
	UpsertTemplate(template *model.Form) error
}

type UserRepository interface {
	Create(user *model.User) error
	Get(id uint) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByStripeCustomerID(customerID string) (*model.User, error)
	Save(user *model.User) error
}
