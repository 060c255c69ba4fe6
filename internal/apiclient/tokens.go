package apiclient

import "context"

// TokenStore holds the credentials of one browser session
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	SetRefreshToken(token string) error
	ClearAccessToken() error
}

type tokensKey struct{}

// WithTokens binds a token store to ctx; requests made with ctx are authenticated with it
func WithTokens(ctx context.Context, tokens TokenStore) context.Context {
	return context.WithValue(ctx, tokensKey{}, tokens)
}

// TokensFrom returns the token store bound to ctx, or nil
func TokensFrom(ctx context.Context) TokenStore {
	tokens, _ := ctx.Value(tokensKey{}).(TokenStore)
	return tokens
}
