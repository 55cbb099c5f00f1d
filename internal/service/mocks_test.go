package service

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	appmodel "github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/repository"
)

type mockFormRepo struct {
	CreateFunc           func(form *appmodel.Form) error
	GetFunc              func(userID, id uint) (*appmodel.Form, error)
	ListFormsFunc        func(userID uint) ([]appmodel.Form, error)
	ListTemplatesFunc    func(userID uint) ([]appmodel.Form, error)
	CountFormsFunc       func(userID uint) (int64, error)
	SaveFunc             func(form *appmodel.Form) error
	DeleteFunc           func(userID, id uint) error
	GetTemplateByKeyFunc func(userID uint, key string) (*appmodel.Form, error)
	UpsertTemplateFunc   func(template *appmodel.Form) error
}

func (m *mockFormRepo) Create(form *appmodel.Form) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(form)
	}
	form.ID = 1
	return nil
}

func (m *mockFormRepo) Get(userID, id uint) (*appmodel.Form, error) {
	if m.GetFunc != nil {
		return m.GetFunc(userID, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFormRepo) ListForms(userID uint) ([]appmodel.Form, error) {
	if m.ListFormsFunc != nil {
		return m.ListFormsFunc(userID)
	}
	return nil, nil
}

func (m *mockFormRepo) ListTemplates(userID uint) ([]appmodel.Form, error) {
	if m.ListTemplatesFunc != nil {
		return m.ListTemplatesFunc(userID)
	}
	return nil, nil
}

func (m *mockFormRepo) CountForms(userID uint) (int64, error) {
	if m.CountFormsFunc != nil {
		return m.CountFormsFunc(userID)
	}
	return 0, nil
}

func (m *mockFormRepo) Save(form *appmodel.Form) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(form)
	}
	return nil
}

func (m *mockFormRepo) Delete(userID, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(userID, id)
	}
	return nil
}

func (m *mockFormRepo) GetTemplateByKey(userID uint, key string) (*appmodel.Form, error) {
	if m.GetTemplateByKeyFunc != nil {
		return m.GetTemplateByKeyFunc(userID, key)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFormRepo) UpsertTemplate(template *appmodel.Form) error {
	if m.UpsertTemplateFunc != nil {
		return m.UpsertTemplateFunc(template)
	}
	template.ID = 1
	return nil
}

type mockUserRepo struct {
	CreateFunc                func(user *appmodel.User) error
	GetFunc                   func(id uint) (*appmodel.User, error)
	GetByEmailFunc            func(email string) (*appmodel.User, error)
	GetByStripeCustomerIDFunc func(customerID string) (*appmodel.User, error)
	SaveFunc                  func(user *appmodel.User) error
}

func (m *mockUserRepo) Create(user *appmodel.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) Get(id uint) (*appmodel.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(email string) (*appmodel.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByStripeCustomerID(customerID string) (*appmodel.User, error) {
	if m.GetByStripeCustomerIDFunc != nil {
		return m.GetByStripeCustomerIDFunc(customerID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Save(user *appmodel.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(user)
	}
	return nil
}

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

func (m *mockGenerator) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, input, opts...)
	}
	return &schema.Message{Role: schema.Assistant, Content: "{}"}, nil
}
