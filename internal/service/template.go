package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/repository"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrReservedTemplate = errors.New("cannot delete reserved template")
)

// SectionInput 分区输入，键和标题都可省略（自动生成键、占位标题）
type SectionInput struct {
	SectionKey string `json:"section_key" binding:"max=64"`
	Title      string `json:"title" binding:"max=255"`
	Content    string `json:"content"`
	AIPrompt   string `json:"ai_prompt"`
}

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	Name            string         `json:"name" binding:"required,min=1,max=255"`
	GeneralAIPrompt string         `json:"general_ai_prompt"`
	Sections        []SectionInput `json:"sections"`
}

// UpdateTemplateRequest 更新模板请求
type UpdateTemplateRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=255"`
	GeneralAIPrompt string `json:"general_ai_prompt"`
}

// MoveDirection 分区移动方向
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// TemplateService 模板服务接口
// 模板以 (userID, key) 寻址；预置模板在首次访问时落库为用户副本，
// 之后的编辑只影响该用户自己的副本
type TemplateService interface {
	List(ctx context.Context, userID uint) ([]model.Form, error)
	Get(ctx context.Context, userID uint, key string) (*model.Form, error)
	Create(ctx context.Context, userID uint, req CreateTemplateRequest) (*model.Form, error)
	Update(ctx context.Context, userID uint, key string, req UpdateTemplateRequest) (*model.Form, error)
	Delete(ctx context.Context, userID uint, key string) error
	AddSection(ctx context.Context, userID uint, key string, req SectionInput) (*model.Form, error)
	UpdateSection(ctx context.Context, userID uint, key, sectionKey string, req SectionInput) (*model.Form, error)
	DeleteSection(ctx context.Context, userID uint, key, sectionKey string) (*model.Form, error)
	MoveSection(ctx context.Context, userID uint, key, sectionKey string, direction MoveDirection) (*model.Form, error)
}

type templateService struct {
	formRepo repository.FormRepository
}

// NewTemplateService 创建服务实例
func NewTemplateService(formRepo repository.FormRepository) TemplateService {
	return &templateService{formRepo: formRepo}
}

// List 获取用户可见的模板列表
// 已落库的用户模板在前，未落库的预置模板以定义形态补在后面（ID 为 0）
func (s *templateService) List(ctx context.Context, userID uint) ([]model.Form, error) {
	templates, err := s.formRepo.ListTemplates(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		seen[t.Key] = true
	}
	for _, builtin := range BuiltinTemplates() {
		if !seen[builtin.Key] {
			builtin.UserID = userID
			templates = append(templates, builtin)
		}
	}
	return templates, nil
}

// Get 获取模板详情，预置模板首次访问时落库
func (s *templateService) Get(ctx context.Context, userID uint, key string) (*model.Form, error) {
	return s.resolve(userID, key)
}

// resolve 按 key 取用户模板；预置模板没有用户副本时先落库再返回
func (s *templateService) resolve(userID uint, key string) (*model.Form, error) {
	template, err := s.formRepo.GetTemplateByKey(userID, key)
	if err == nil {
		return template, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	builtin, ok := BuiltinTemplate(key)
	if !ok {
		return nil, ErrTemplateNotFound
	}
	builtin.UserID = userID
	if err := s.formRepo.UpsertTemplate(&builtin); err != nil {
		return nil, fmt.Errorf("failed to materialize builtin template: %w", err)
	}
	return &builtin, nil
}

// Create 创建用户自定义模板，key 自动生成
func (s *templateService) Create(ctx context.Context, userID uint, req CreateTemplateRequest) (*model.Form, error) {
	template := &model.Form{
		UserID:          userID,
		Name:            req.Name,
		IsTemplate:      true,
		Key:             uuid.NewString(),
		GeneralAIPrompt: req.GeneralAIPrompt,
		Sections:        make([]model.Section, len(req.Sections)),
	}
	for i, in := range req.Sections {
		template.Sections[i] = newSection(in, i)
	}

	if err := s.formRepo.Create(template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

// Update 更新模板名称与通用指令
func (s *templateService) Update(ctx context.Context, userID uint, key string, req UpdateTemplateRequest) (*model.Form, error) {
	template, err := s.resolve(userID, key)
	if err != nil {
		return nil, err
	}

	template.Name = req.Name
	template.GeneralAIPrompt = req.GeneralAIPrompt
	if err := s.formRepo.Save(template); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

// Delete 删除用户模板，预置模板禁止删除
// 由模板创建的表单不受影响（模板引用是弱引用）
func (s *templateService) Delete(ctx context.Context, userID uint, key string) error {
	if model.IsBuiltinKey(key) {
		return ErrReservedTemplate
	}

	template, err := s.formRepo.GetTemplateByKey(userID, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to get template: %w", err)
	}

	if err := s.formRepo.Delete(userID, template.ID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// AddSection 在模板末尾追加分区
func (s *templateService) AddSection(ctx context.Context, userID uint, key string, req SectionInput) (*model.Form, error) {
	template, err := s.resolve(userID, key)
	if err != nil {
		return nil, err
	}

	template.Sections = append(template.Sections, newSection(req, len(template.Sections)))
	if err := s.formRepo.Save(template); err != nil {
		return nil, fmt.Errorf("failed to add section: %w", err)
	}
	return template, nil
}

// UpdateSection 更新模板分区的标题、内容与分区指令
func (s *templateService) UpdateSection(ctx context.Context, userID uint, key, sectionKey string, req SectionInput) (*model.Form, error) {
	template, err := s.resolve(userID, key)
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(template, sectionKey)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	if req.Title != "" {
		template.Sections[idx].Title = req.Title
	}
	template.Sections[idx].Content = req.Content
	template.Sections[idx].AIPrompt = req.AIPrompt

	if err := s.formRepo.Save(template); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return template, nil
}

// DeleteSection 删除模板分区
func (s *templateService) DeleteSection(ctx context.Context, userID uint, key, sectionKey string) (*model.Form, error) {
	template, err := s.resolve(userID, key)
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(template, sectionKey)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	template.Sections = append(template.Sections[:idx], template.Sections[idx+1:]...)

	if err := s.formRepo.Save(template); err != nil {
		return nil, fmt.Errorf("failed to delete section: %w", err)
	}
	return template, nil
}

// MoveSection 上移/下移模板分区，已在边界时不变
func (s *templateService) MoveSection(ctx context.Context, userID uint, key, sectionKey string, direction MoveDirection) (*model.Form, error) {
	template, err := s.resolve(userID, key)
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(template, sectionKey)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}

	target := idx
	switch direction {
	case MoveUp:
		target = idx - 1
	case MoveDown:
		target = idx + 1
	}
	if target < 0 || target >= len(template.Sections) || target == idx {
		return template, nil
	}

	sections := template.Sections
	sections[idx], sections[target] = sections[target], sections[idx]
	if err := s.formRepo.Save(template); err != nil {
		return nil, fmt.Errorf("failed to move section: %w", err)
	}
	return template, nil
}

// newSection 由输入构造分区，未提供分区键时自动生成
func newSection(in SectionInput, order int) model.Section {
	key := in.SectionKey
	if key == "" {
		key = "section-" + uuid.NewString()[:8]
	}
	title := in.Title
	if title == "" {
		title = "Nueva Sección"
	}
	return model.Section{
		SectionKey: key,
		Title:      title,
		Content:    in.Content,
		AIPrompt:   in.AIPrompt,
		SortOrder:  order,
	}
}

// sectionIndex 按分区键查找下标，未找到返回 -1
func sectionIndex(form *model.Form, sectionKey string) int {
	for i := range form.Sections {
		if form.Sections[i].SectionKey == sectionKey {
			return i
		}
	}
	return -1
}
