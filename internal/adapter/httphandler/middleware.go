package httphandler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/mr-tron/base58"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
)

const (
	identityHeader  = "X-Identity"
	signatureHeader = "X-Signature"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

type identityCtxKey struct{}

// RequireIdentity admits a request only when the caller proves control
// of the identity named in the X-Identity header by signing the
// request body. The proven identity becomes the operation's primary
// seed, read back with [IdentityFrom].
func RequireIdentity(
	next http.Handler, authorizer port.Authorizer,
) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "RequireIdentity"
		log := slog.With("op", op)

		identity, err := domain.ParseIdentity(r.Header.Get(identityHeader))
		if err != nil {
			http.Error(w, "invalid identity", http.StatusBadRequest)
			return
		}

		signature, err := base58.Decode(r.Header.Get(signatureHeader))
		if err != nil {
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if err := authorizer.Authorize(identity, body, signature); err != nil {
			log.Warn("rejected", "identity", identity.String())
			http.Error(w, "authorization failed", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), identityCtxKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return identity, ok
}
