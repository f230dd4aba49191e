package logctx

import (
	"context"
	"log/slog"
)

// Handler decorates records with profiler and manifest attributes carried on
// the context.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if pd, ok := ctx.Value(profileDataKey{}).(*ProfileData); ok {
		r.AddAttrs(slog.Group("profile",
			slog.String("token", pd.Token),
			slog.String("server", pd.Server),
		))
	}

	if md, ok := ctx.Value(manifestDataKey{}).(*ManifestData); ok {
		r.AddAttrs(slog.Group("manifest",
			slog.String("path", md.Path),
			slog.String("digest", md.Digest),
		))
	}

	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type profileDataKey struct{}

type ProfileData struct {
	Token  string
	Server string
}

func WithProfileData(ctx context.Context, data *ProfileData) context.Context {
	return context.WithValue(ctx, profileDataKey{}, data)
}

type manifestDataKey struct{}

type ManifestData struct {
	Path   string
	Digest string
}

func WithManifestData(ctx context.Context, data *ManifestData) context.Context {
	return context.WithValue(ctx, manifestDataKey{}, data)
}
