package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/bonicascribe/backend/internal/eventbus"
	"github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/repository"
)

var (
	ErrFormNotFound      = errors.New("form not found")
	ErrFormQuotaExceeded = errors.New("free form limit reached")
)

// CreateFormRequest 从模板创建表单请求
type CreateFormRequest struct {
	TemplateKey string `json:"template_key" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"max=255"`
}

// UpdateSectionContentRequest 编辑分区内容请求
type UpdateSectionContentRequest struct {
	Content string `json:"content"`
}

// FormService 表单服务接口
// 表单是模板的独立副本，创建后与模板完全解耦：
// 模板的后续修改或删除不影响已有表单
type FormService interface {
	List(ctx context.Context, userID uint) ([]model.Form, error)
	Get(ctx context.Context, userID, id uint) (*model.Form, error)
	CreateFromTemplate(ctx context.Context, userID uint, req CreateFormRequest) (*model.Form, error)
	Rename(ctx context.Context, userID, id uint, name string) (*model.Form, error)
	UpdateSectionContent(ctx context.Context, userID, id uint, sectionKey, content string) (*model.Form, error)
	// UpdateSectionSummary 手工编辑或清空分区摘要
	UpdateSectionSummary(ctx context.Context, userID, id uint, sectionKey, summary string) (*model.Form, error)
	// ResetSection 把分区内容恢复为来源模板的初始内容并清空摘要
	ResetSection(ctx context.Context, userID, id uint, sectionKey string) (*model.Form, error)
	Delete(ctx context.Context, userID, id uint) error
}

type formService struct {
	formRepo  repository.FormRepository
	userRepo  repository.UserRepository
	bus       *eventbus.FormEventBus
	formLimit int64
}

// NewFormService 创建服务实例
// formLimit 是无订阅用户的表单数量上限
func NewFormService(formRepo repository.FormRepository, userRepo repository.UserRepository,
	bus *eventbus.FormEventBus, formLimit int64) FormService {
	return &formService{formRepo: formRepo, userRepo: userRepo, bus: bus, formLimit: formLimit}
}

// List 获取用户的表单列表（不含模板）
func (s *formService) List(ctx context.Context, userID uint) ([]model.Form, error) {
	forms, err := s.formRepo.ListForms(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, nil
}

// Get 获取表单详情
func (s *formService) Get(ctx context.Context, userID, id uint) (*model.Form, error) {
	form, err := s.formRepo.Get(userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form.IsTemplate {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// CreateFromTemplate 从模板克隆一个独立表单
// 无有效订阅的用户受表单数量配额限制
func (s *formService) CreateFromTemplate(ctx context.Context, userID uint, req CreateFormRequest) (*model.Form, error) {
	if err := s.checkQuota(userID); err != nil {
		return nil, err
	}

	template, err := s.resolveTemplate(userID, req.TemplateKey)
	if err != nil {
		return nil, err
	}

	form := cloneFormFromTemplate(template, req.Name)
	form.UserID = userID
	if err := s.formRepo.Create(form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	s.publish(ctx, eventbus.FormEvent{Type: eventbus.FormEventSaved, UserID: userID, FormID: form.ID})
	return form, nil
}

// Rename 重命名表单
func (s *formService) Rename(ctx context.Context, userID, id uint, name string) (*model.Form, error) {
	form, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	form.Name = name
	if err := s.formRepo.Save(form); err != nil {
		return nil, fmt.Errorf("failed to rename form: %w", err)
	}
	s.publish(ctx, eventbus.FormEvent{Type: eventbus.FormEventSaved, UserID: userID, FormID: form.ID})
	return form, nil
}

// UpdateSectionContent 手工编辑分区内容
func (s *formService) UpdateSectionContent(ctx context.Context, userID, id uint, sectionKey, content string) (*model.Form, error) {
	form, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(form, sectionKey)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	form.Sections[idx].Content = content

	if err := s.formRepo.Save(form); err != nil {
		return nil, fmt.Errorf("failed to update section content: %w", err)
	}
	s.publish(ctx, eventbus.FormEvent{
		Type: eventbus.FormEventSaved, UserID: userID, FormID: form.ID, SectionKeys: []string{sectionKey},
	})
	return form, nil
}

// UpdateSectionSummary 手工编辑分区摘要，传空串即清空
func (s *formService) UpdateSectionSummary(ctx context.Context, userID, id uint, sectionKey, summary string) (*model.Form, error) {
	form, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(form, sectionKey)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	form.Sections[idx].Summary = summary

	if err := s.formRepo.Save(form); err != nil {
		return nil, fmt.Errorf("failed to update section summary: %w", err)
	}
	s.publish(ctx, eventbus.FormEvent{
		Type: eventbus.FormEventSaved, UserID: userID, FormID: form.ID, SectionKeys: []string{sectionKey},
	})
	return form, nil
}

// ResetSection 恢复分区为模板初始内容并清空摘要
// 来源模板已被删除或分区在模板中不存在时不做任何修改，
// 返回对应错误，绝不清空用户口述的内容
func (s *formService) ResetSection(ctx context.Context, userID, id uint, sectionKey string) (*model.Form, error) {
	form, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(form, sectionKey)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}

	if form.TemplateKey == "" {
		return nil, ErrTemplateNotFound
	}
	template, err := s.resolveTemplate(userID, form.TemplateKey)
	if err != nil {
		return nil, err
	}
	tplIdx := sectionIndex(template, sectionKey)
	if tplIdx < 0 {
		return nil, ErrSectionNotFound
	}

	form.Sections[idx].Content = template.Sections[tplIdx].Content
	form.Sections[idx].Summary = ""

	if err := s.formRepo.Save(form); err != nil {
		return nil, fmt.Errorf("failed to reset section: %w", err)
	}
	s.publish(ctx, eventbus.FormEvent{
		Type: eventbus.FormEventSectionReset, UserID: userID, FormID: form.ID, SectionKeys: []string{sectionKey},
	})
	return form, nil
}

// Delete 删除表单及其所有分区
func (s *formService) Delete(ctx context.Context, userID, id uint) error {
	form, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.formRepo.Delete(userID, form.ID); err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	return nil
}

// checkQuota 配额检查，有有效订阅的用户不限数量
func (s *formService) checkQuota(userID uint) error {
	user, err := s.userRepo.Get(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.HasActiveSubscription() {
		return nil
	}

	count, err := s.formRepo.CountForms(userID)
	if err != nil {
		return fmt.Errorf("failed to count forms: %w", err)
	}
	if count >= s.formLimit {
		return ErrFormQuotaExceeded
	}
	return nil
}

// resolveTemplate 按 key 取模板，预置模板未落库时用定义本身
func (s *formService) resolveTemplate(userID uint, key string) (*model.Form, error) {
	template, err := s.formRepo.GetTemplateByKey(userID, key)
	if err == nil {
		return template, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if builtin, ok := BuiltinTemplate(key); ok {
		return &builtin, nil
	}
	return nil, ErrTemplateNotFound
}

// publish 事件投递失败只记日志，不影响主流程
func (s *formService) publish(ctx context.Context, event eventbus.FormEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		klog.Errorf("发布表单事件失败: %v", err)
	}
}

// cloneFormFromTemplate 由模板克隆出独立表单
// 分区内容逐个复制，摘要从空开始；未命名时使用带日期的默认名
func cloneFormFromTemplate(template *model.Form, name string) *model.Form {
	if name == "" {
		name = "Nuevo Formulario - " + time.Now().Format("2006-01-02")
	}
	form := &model.Form{
		Name:            name,
		IsTemplate:      false,
		TemplateKey:     template.Key,
		GeneralAIPrompt: template.GeneralAIPrompt,
		Sections:        make([]model.Section, len(template.Sections)),
	}
	if form.GeneralAIPrompt == "" {
		form.GeneralAIPrompt = defaultGeneralAIPrompt
	}
	for i, sec := range template.Sections {
		form.Sections[i] = model.Section{
			SectionKey: sec.SectionKey,
			Title:      sec.Title,
			Content:    sec.Content,
			AIPrompt:   sec.AIPrompt,
			SortOrder:  i,
		}
	}
	return form
}
