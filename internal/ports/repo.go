package ports

import "context"

// PackageRepositoryPort is the remote build service client (osc).
type PackageRepositoryPort interface {
	List(ctx context.Context) ([]string, error)
	Checkout(ctx context.Context, pkg string, dir string) error
	Create(ctx context.Context, pkg string, title string, description string) error
	Commit(ctx context.Context, dir string, message string) error
}
