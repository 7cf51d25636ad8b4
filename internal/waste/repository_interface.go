package waste

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, e Entry) (int, error)
	FindByID(ctx context.Context, recordID, userID int) (*Record, error)
	ListForUser(ctx context.Context, userID, limit, offset int) ([]Record, error)
	Recent(ctx context.Context, userID, limit int) ([]Record, error)
	Update(ctx context.Context, recordID, userID int, e Entry) error
	Delete(ctx context.Context, recordID, userID int) error
	ListAll(ctx context.Context, limit, offset int) ([]Record, error)
	Categories(ctx context.Context) ([]Category, error)
	CategoryByID(ctx context.Context, id int) (*Category, error)
	CategoryExists(ctx context.Context, id int) (bool, error)
}
