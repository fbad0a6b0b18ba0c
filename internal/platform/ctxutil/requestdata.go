package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries the authenticated caller. UserID is the token subject;
// the profile fields come from optional token claims.
type RequestData struct {
	TokenString     string
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(Default(ctx), requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the caller id or "" when the context is unauthenticated.
func UserID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return ""
}
