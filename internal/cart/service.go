package cart

import (
	"context"

	"tokoline-be/internal/logger"
	"tokoline-be/internal/product"

	"go.uber.org/zap"
)

type Service interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	ClearCart(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo     Repository
	products product.Repository
}

func NewService(repo Repository, products product.Repository) Service {
	return &service{repo: repo, products: products}
}

func (s *service) GetCart(ctx context.Context, userID string) (*Cart, error) {
	return s.repo.GetCartWithItems(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, userID, productID string, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Unit price is captured here; later catalog price changes do not
	// affect this line.
	item, err := s.repo.AddItem(ctx, c.ID, p.ID, quantity, p.Price)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("cart item added",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)

	item.ProductName = p.Name
	return item, nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateItemQuantity(ctx, c.ID, itemID, quantity)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID string) error {
	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.RemoveItem(ctx, c.ID, itemID)
}

func (s *service) ClearCart(ctx context.Context, userID string) (int, error) {
	c, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return 0, err
	}

	return s.repo.ClearCart(ctx, c.ID)
}
