package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey string

const principalKey ctxKey = "auth_principal"

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/clinic-service/auth")

// MetricsRecorder receives authentication and authorization outcomes.
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
	RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool)
}

// Guard authenticates bearer tokens and enforces role permissions.
type Guard struct {
	verifier TokenVerifier
	perms    Permissions
	logger   *zap.Logger
	metrics  MetricsRecorder
}

// NewGuard builds a Guard. metrics may be nil.
func NewGuard(verifier TokenVerifier, perms Permissions, logger *zap.Logger, metrics MetricsRecorder) *Guard {
	return &Guard{verifier: verifier, perms: perms, logger: logger, metrics: metrics}
}

// Protect wraps h so it runs only for authenticated callers holding permission.
func (g *Guard) Protect(permission string, h http.HandlerFunc) http.Handler {
	return g.Authenticate(g.Require(permission)(h))
}

// Authenticate validates the bearer token and stores the Principal in the request context.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "auth.Authenticate",
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		fail := func(reason, msg string) {
			span.SetStatus(codes.Error, msg)
			span.SetAttributes(attribute.String("error.type", reason))
			if g.metrics != nil {
				g.metrics.RecordAuthFailure(ctx, reason)
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", msg)
		}

		authz := r.Header.Get("Authorization")
		if authz == "" {
			fail("missing_authorization", "missing authorization")
			return
		}

		scheme, tok, ok := strings.Cut(authz, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
			fail("invalid_header_format", "invalid authorization header")
			return
		}

		pr, err := g.verifier.ParseAndVerifyToken(tok)
		if err != nil {
			g.logger.Warn("token validation failed", zap.Error(err), zap.String("path", r.URL.Path))
			fail("invalid_token", "invalid token")
			return
		}

		span.SetAttributes(
			attribute.String("user.id", pr.UserID),
			attribute.String("user.email", pr.Email),
			attribute.StringSlice("user.roles", pr.Roles),
		)
		span.SetStatus(codes.Ok, "authenticated")

		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, pr)))
	})
}

// Require returns middleware rejecting principals that lack permission.
func (g *Guard) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := tracer.Start(r.Context(), "auth.Require",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("permission.required", permission)),
			)
			defer span.End()

			pr, ok := FromContext(ctx)
			if !ok {
				span.SetStatus(codes.Error, "unauthenticated")
				g.recordCheck(ctx, permission, start, false)
				writeError(w, http.StatusUnauthorized, "unauthorized", "unauthenticated")
				return
			}

			allowed := HasPermission(pr, permission, g.perms)
			span.SetAttributes(
				attribute.Bool("permission.allowed", allowed),
				attribute.String("user.id", pr.UserID),
			)
			g.recordCheck(ctx, permission, start, allowed)

			if !allowed {
				g.logger.Info("permission denied",
					zap.String("user_id", pr.UserID),
					zap.Strings("roles", pr.Roles),
					zap.String("permission", permission),
				)
				span.SetStatus(codes.Error, "forbidden")
				writeError(w, http.StatusForbidden, "forbidden", "missing permission "+permission)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *Guard) recordCheck(ctx context.Context, permission string, start time.Time, allowed bool) {
	if g.metrics != nil {
		g.metrics.RecordPermissionCheck(ctx, permission, float64(time.Since(start).Microseconds())/1000, allowed)
	}
}

func writeError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": errorType, "message": message})
}

// FromContext extracts the Principal stored by Authenticate.
func FromContext(ctx context.Context) (*Principal, bool) {
	pr, ok := ctx.Value(principalKey).(*Principal)
	return pr, ok
}

// HasPermission reports whether any of the principal's roles grants permission.
// Roles are matched case-insensitively against permissions.yml.
func HasPermission(pr *Principal, permission string, perms Permissions) bool {
	if pr == nil {
		return false
	}
	for _, role := range pr.Roles {
		pList, ok := perms[role]
		if !ok {
			pList, ok = perms[strings.ToUpper(role)]
		}
		if !ok {
			continue
		}
		for _, p := range pList {
			if p == permission {
				return true
			}
		}
	}
	return false
}
