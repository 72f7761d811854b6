package logging

import "context"

type contextKey string

const (
	postIDKey contextKey = "post_id"
	pathKey   contextKey = "path"
)

// WithPostID adds the review post ID to the context.
func WithPostID(ctx context.Context, postID string) context.Context {
	return context.WithValue(ctx, postIDKey, postID)
}

// WithPath adds the reviewed file path to the context.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey, path)
}

// WithFile is shorthand for WithPostID followed by WithPath.
func WithFile(ctx context.Context, postID, path string) context.Context {
	return WithPath(WithPostID(ctx, postID), path)
}

// GetPostID retrieves the post ID from the context.
// Returns empty string if not present.
func GetPostID(ctx context.Context) string {
	if id, ok := ctx.Value(postIDKey).(string); ok {
		return id
	}
	return ""
}

// GetPath retrieves the file path from the context.
// Returns empty string if not present.
func GetPath(ctx context.Context) string {
	if p, ok := ctx.Value(pathKey).(string); ok {
		return p
	}
	return ""
}
