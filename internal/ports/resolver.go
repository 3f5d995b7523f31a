package ports

import "context"

// SystemResolverPort maps a declared dependency key to the platform
// package that provides it.
type SystemResolverPort interface {
	Resolve(ctx context.Context, name string) (string, error)
}
