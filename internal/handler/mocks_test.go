package handler

import (
	"context"

	"github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/service"
)

type mockAuthService struct {
	RegisterFunc func(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error)
	LoginFunc    func(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error)
	GetUserFunc  func(ctx context.Context, userID uint) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*service.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &service.AuthResult{Token: "t", User: &model.User{ID: 1}}, nil
}

func (m *mockAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &service.AuthResult{Token: "t", User: &model.User{ID: 1}}, nil
}

func (m *mockAuthService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	return &model.User{ID: userID}, nil
}

type mockFormService struct {
	ListFunc                 func(ctx context.Context, userID uint) ([]model.Form, error)
	GetFunc                  func(ctx context.Context, userID, id uint) (*model.Form, error)
	CreateFromTemplateFunc   func(ctx context.Context, userID uint, req service.CreateFormRequest) (*model.Form, error)
	RenameFunc               func(ctx context.Context, userID, id uint, name string) (*model.Form, error)
	UpdateSectionContentFunc func(ctx context.Context, userID, id uint, sectionKey, content string) (*model.Form, error)
	UpdateSectionSummaryFunc func(ctx context.Context, userID, id uint, sectionKey, summary string) (*model.Form, error)
	ResetSectionFunc         func(ctx context.Context, userID, id uint, sectionKey string) (*model.Form, error)
	DeleteFunc               func(ctx context.Context, userID, id uint) error
}

func (m *mockFormService) List(ctx context.Context, userID uint) ([]model.Form, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockFormService) Get(ctx context.Context, userID, id uint) (*model.Form, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, id)
	}
	return &model.Form{ID: id, UserID: userID}, nil
}

func (m *mockFormService) CreateFromTemplate(ctx context.Context, userID uint, req service.CreateFormRequest) (*model.Form, error) {
	if m.CreateFromTemplateFunc != nil {
		return m.CreateFromTemplateFunc(ctx, userID, req)
	}
	return &model.Form{ID: 1, UserID: userID}, nil
}

func (m *mockFormService) Rename(ctx context.Context, userID, id uint, name string) (*model.Form, error) {
	if m.RenameFunc != nil {
		return m.RenameFunc(ctx, userID, id, name)
	}
	return &model.Form{ID: id, UserID: userID, Name: name}, nil
}

func (m *mockFormService) UpdateSectionContent(ctx context.Context, userID, id uint, sectionKey, content string) (*model.Form, error) {
	if m.UpdateSectionContentFunc != nil {
		return m.UpdateSectionContentFunc(ctx, userID, id, sectionKey, content)
	}
	return &model.Form{ID: id, UserID: userID}, nil
}

func (m *mockFormService) UpdateSectionSummary(ctx context.Context, userID, id uint, sectionKey, summary string) (*model.Form, error) {
	if m.UpdateSectionSummaryFunc != nil {
		return m.UpdateSectionSummaryFunc(ctx, userID, id, sectionKey, summary)
	}
	return &model.Form{ID: id, UserID: userID}, nil
}

func (m *mockFormService) ResetSection(ctx context.Context, userID, id uint, sectionKey string) (*model.Form, error) {
	if m.ResetSectionFunc != nil {
		return m.ResetSectionFunc(ctx, userID, id, sectionKey)
	}
	return &model.Form{ID: id, UserID: userID}, nil
}

func (m *mockFormService) Delete(ctx context.Context, userID, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

type mockTemplateService struct {
	ListFunc          func(ctx context.Context, userID uint) ([]model.Form, error)
	GetFunc           func(ctx context.Context, userID uint, key string) (*model.Form, error)
	CreateFunc        func(ctx context.Context, userID uint, req service.CreateTemplateRequest) (*model.Form, error)
	UpdateFunc        func(ctx context.Context, userID uint, key string, req service.UpdateTemplateRequest) (*model.Form, error)
	DeleteFunc        func(ctx context.Context, userID uint, key string) error
	AddSectionFunc    func(ctx context.Context, userID uint, key string, req service.SectionInput) (*model.Form, error)
	UpdateSectionFunc func(ctx context.Context, userID uint, key, sectionKey string, req service.SectionInput) (*model.Form, error)
	DeleteSectionFunc func(ctx context.Context, userID uint, key, sectionKey string) (*model.Form, error)
	MoveSectionFunc   func(ctx context.Context, userID uint, key, sectionKey string, direction service.MoveDirection) (*model.Form, error)
}

func (m *mockTemplateService) List(ctx context.Context, userID uint) ([]model.Form, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTemplateService) Get(ctx context.Context, userID uint, key string) (*model.Form, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, key)
	}
	return &model.Form{Key: key, IsTemplate: true}, nil
}

func (m *mockTemplateService) Create(ctx context.Context, userID uint, req service.CreateTemplateRequest) (*model.Form, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, req)
	}
	return &model.Form{ID: 1, IsTemplate: true}, nil
}

func (m *mockTemplateService) Update(ctx context.Context, userID uint, key string, req service.UpdateTemplateRequest) (*model.Form, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, key, req)
	}
	return &model.Form{Key: key, IsTemplate: true}, nil
}

func (m *mockTemplateService) Delete(ctx context.Context, userID uint, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, key)
	}
	return nil
}

func (m *mockTemplateService) AddSection(ctx context.Context, userID uint, key string, req service.SectionInput) (*model.Form, error) {
	if m.AddSectionFunc != nil {
		return m.AddSectionFunc(ctx, userID, key, req)
	}
	return &model.Form{Key: key, IsTemplate: true}, nil
}

func (m *mockTemplateService) UpdateSection(ctx context.Context, userID uint, key, sectionKey string, req service.SectionInput) (*model.Form, error) {
	if m.UpdateSectionFunc != nil {
		return m.UpdateSectionFunc(ctx, userID, key, sectionKey, req)
	}
	return &model.Form{Key: key, IsTemplate: true}, nil
}

func (m *mockTemplateService) DeleteSection(ctx context.Context, userID uint, key, sectionKey string) (*model.Form, error) {
	if m.DeleteSectionFunc != nil {
		return m.DeleteSectionFunc(ctx, userID, key, sectionKey)
	}
	return &model.Form{Key: key, IsTemplate: true}, nil
}

func (m *mockTemplateService) MoveSection(ctx context.Context, userID uint, key, sectionKey string, direction service.MoveDirection) (*model.Form, error) {
	if m.MoveSectionFunc != nil {
		return m.MoveSectionFunc(ctx, userID, key, sectionKey, direction)
	}
	return &model.Form{Key: key, IsTemplate: true}, nil
}

type mockBillingService struct {
	CreateCheckoutSessionFunc func(ctx context.Context, userID uint) (*service.CheckoutResult, error)
	HandleWebhookFunc         func(ctx context.Context, payload []byte, signature string) error
}

func (m *mockBillingService) CreateCheckoutSession(ctx context.Context, userID uint) (*service.CheckoutResult, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, userID)
	}
	return &service.CheckoutResult{URL: "https://checkout.stripe.com/test"}, nil
}

func (m *mockBillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if m.HandleWebhookFunc != nil {
		return m.HandleWebhookFunc(ctx, payload, signature)
	}
	return nil
}
