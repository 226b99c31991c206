// Package metadata is the client's device-local key/value store. It keeps
// small per-device settings such as whether the honor code was acknowledged.
package metadata

import "context"

// Repository is a string key/value store. Missing keys are not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}
