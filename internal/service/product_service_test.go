package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_List_ClampsPagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{name: "defaults applied", page: 0, pageSize: 0, wantPage: 1, wantPageSize: defaultPageSize},
		{name: "negative page", page: -3, pageSize: 10, wantPage: 1, wantPageSize: 10},
		{name: "oversized page size capped", page: 2, pageSize: 500, wantPage: 2, wantPageSize: maxPageSize},
		{name: "values in range pass through", page: 3, pageSize: 24, wantPage: 3, wantPageSize: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, zerolog.Nop())

			expected := model.ProductQuery{Page: tt.wantPage, PageSize: tt.wantPageSize}
			mockRepo.On("List", ctx, expected).Return([]model.Product{}, 0, nil)
			mockRepo.On("ListCategories", ctx).Return([]model.Category{}, nil)

			page, err := service.List(ctx, model.ProductQuery{Page: tt.page, PageSize: tt.pageSize})

			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPageSize, page.PageSize)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_List_EmptyResultIsNotNil(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	mockRepo.On("List", ctx, mock.Anything).Return(nil, 0, nil)
	mockRepo.On("ListCategories", ctx).Return([]model.Category{}, nil)

	page, err := service.List(ctx, model.ProductQuery{})

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}

func TestProductService_List_IncludesCategories(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	products := []model.Product{{ID: 1, Name: "T-Shirt", Price: price("15.00")}}
	categories := []model.Category{{ID: 1, Name: "Apparel", Slug: "apparel"}}

	mockRepo.On("List", ctx, mock.Anything).Return(products, 42, nil)
	mockRepo.On("ListCategories", ctx).Return(categories, nil)

	page, err := service.List(ctx, model.ProductQuery{Page: 1, PageSize: 8})

	require.NoError(t, err)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, products, page.Items)
	assert.Equal(t, categories, page.Categories)
}

func TestProductService_List_RepositoryError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	mockRepo.On("List", ctx, mock.Anything).Return(nil, 0, errors.New("connection refused"))

	page, err := service.List(ctx, model.ProductQuery{})

	require.Error(t, err)
	assert.Nil(t, page)
	mockRepo.AssertNotCalled(t, "ListCategories", mock.Anything)
}

func TestProductService_GetByID(t *testing.T) {
	product := &model.Product{ID: 7, Name: "Novel", Price: price("12.99"), Stock: 30}

	tests := []struct {
		name    string
		id      int64
		stored  *model.Product
		wantErr error
	}{
		{name: "found", id: 7, stored: product},
		{name: "missing", id: 8, stored: nil, wantErr: model.ErrProductNotFound},
		{name: "zero id", id: 0, wantErr: model.ErrProductNotFound},
		{name: "negative id", id: -4, wantErr: model.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, zerolog.Nop())

			if tt.id > 0 {
				if tt.stored == nil {
					mockRepo.On("GetByID", ctx, tt.id).Return(nil, nil)
				} else {
					mockRepo.On("GetByID", ctx, tt.id).Return(tt.stored, nil)
				}
			}

			got, err := service.GetByID(ctx, tt.id)

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, got)
				// An invalid id never reaches the repository
				if tt.id <= 0 {
					mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.stored, got)
		})
	}
}

func TestProductService_ListCategories_NilBecomesEmpty(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := NewProductService(mockRepo, zerolog.Nop())

	mockRepo.On("ListCategories", ctx).Return(nil, nil)

	categories, err := service.ListCategories(ctx)

	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}
