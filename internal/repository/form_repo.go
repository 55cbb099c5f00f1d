package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bonicascribe/backend/internal/model"
)

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func sectionsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order")
}

func (r *formRepository) Create(form *model.Form) error {
	return r.db.Create(form).Error
}

func (r *formRepository) Get(userID, id uint) (*model.Form, error) {
	var form model.Form
	err := r.db.Preload("Sections", sectionsInOrder).
		Where("user_id = ?", userID).
		First(&form, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) ListForms(userID uint) ([]model.Form, error) {
	var forms []model.Form
	err := r.db.Preload("Sections", sectionsInOrder).
		Where("user_id = ? AND is_template = ?", userID, false).
		Order("updated_at DESC").
		Find(&forms).Error
	return forms, err
}

func (r *formRepository) ListTemplates(userID uint) ([]model.Form, error) {
	var templates []model.Form
	err := r.db.Preload("Sections", sectionsInOrder).
		Where("user_id = ? AND is_template = ?", userID, true).
		Order("created_at").
		Find(&templates).Error
	return templates, err
}

func (r *formRepository) CountForms(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Form{}).
		Where("user_id = ? AND is_template = ?", userID, false).
		Count(&count).Error
	return count, err
}

// Save 保存表单和分区，传入的分区列表是最终状态
// 结构编辑（增删、移动）会改变分区集合，所以先删掉不在列表里的行
func (r *formRepository) Save(form *model.Form) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		keep := make([]uint, 0, len(form.Sections))
		for i := range form.Sections {
			form.Sections[i].FormID = form.ID
			form.Sections[i].SortOrder = i
			if form.Sections[i].ID != 0 {
				keep = append(keep, form.Sections[i].ID)
			}
		}

		q := tx.Where("form_id = ?", form.ID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		if err := q.Delete(&model.Section{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(form).Error
	})
}

func (r *formRepository) Delete(userID, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&model.Form{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("form_id = ?", id).Delete(&model.Section{}).Error
	})
}

func (r *formRepository) GetTemplateByKey(userID uint, key string) (*model.Form, error) {
	var form model.Form
	err := r.db.Preload("Sections", sectionsInOrder).
		Where("user_id = ? AND is_template = ? AND `key` = ?", userID, true, key).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// UpsertTemplate 按 (userID, key) 幂等写入
// 已存在时不覆盖用户的修改，直接返回现有模板的 ID
func (r *formRepository) UpsertTemplate(template *model.Form) error {
	existing, err := r.GetTemplateByKey(template.UserID, template.Key)
	if err == nil {
		template.ID = existing.ID
		template.Sections = existing.Sections
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.db.Create(template).Error
}
