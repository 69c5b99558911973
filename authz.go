package authz

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"golang.org/x/xerrors"

	"cdr.dev/slog"
)

var tracer = otel.Tracer("github.com/crestline/authz")

// Authorizer is the front door for permission decisions. It resolves
// privilege names against a Registry, composes them into Permissions and
// converts deny decisions into *UnauthorizedError. All methods are safe for
// concurrent use.
type Authorizer struct {
	registry *Registry
	log      slog.Logger
	metrics  *metrics
}

type metrics struct {
	decisions *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewAuthorizer(logger slog.Logger, registerer prometheus.Registerer, registry *Registry) *Authorizer {
	factory := promauto.With(registerer)
	return &Authorizer{
		registry: registry,
		log:      logger,
		metrics: &metrics{
			decisions: factory.NewCounterVec(prometheus.CounterOpts{
				Namespace: "authz",
				Subsystem: "permission",
				Name:      "decisions_total",
				Help:      "The total number of permission decisions, by outcome.",
			}, []string{"decision"}),
			duration: factory.NewHistogram(prometheus.HistogramOpts{
				Namespace: "authz",
				Subsystem: "permission",
				Name:      "check_duration_seconds",
				Help:      "Time spent evaluating a single permission check.",
				Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
			}),
		},
	}
}

// ByPrivilegeNames resolves privilegeNames, builds the resulting Permission
// and authorizes the action against it. This is the function intended to be
// used outside this package when only the role's privilege names are at
// hand.
func (a *Authorizer) ByPrivilegeNames(ctx context.Context, authentication Authentication, privilegeNames []string, action string, request Request) error {
	permission, err := a.BuildPermission(privilegeNames)
	if err != nil {
		return err
	}
	return a.Authorize(ctx, authentication, permission, action, request)
}

// BuildPermission resolves each privilege name through the registry and
// freezes them into a single Permission. Resolution and pattern errors abort
// the build; no partial Permission is returned.
func (a *Authorizer) BuildPermission(privilegeNames []string) (*Permission, error) {
	builder := NewBuilder()
	for _, name := range privilegeNames {
		privilege, err := a.registry.Resolve(name)
		if err != nil {
			return nil, xerrors.Errorf("resolve privilege %q: %w", name, err)
		}
		privilege.BuildPermission(builder)
	}
	permission, err := builder.Build()
	if err != nil {
		return nil, xerrors.Errorf("build permission: %w", err)
	}
	return permission, nil
}

// Authorize checks the action against an already built Permission. A deny
// returns *UnauthorizedError with a client-safe message; the detailed reason
// stays internal and is logged at debug level.
func (a *Authorizer) Authorize(ctx context.Context, authentication Authentication, permission *Permission, action string, request Request) error {
	ctx, span := tracer.Start(ctx, "authz.Authorize", authzTraceAttributes(authentication, action))
	defer span.End()

	start := time.Now()
	allowed := permission.Check(action, request, authentication)
	a.metrics.duration.Observe(time.Since(start).Seconds())

	if !allowed {
		a.metrics.decisions.WithLabelValues("forbid").Inc()
		a.log.Debug(ctx, "permission denied",
			slog.F("principal", authentication.Principal),
			slog.F("realm", authentication.RealmName),
			slog.F("authentication_type", authentication.Type),
			slog.F("action", action),
		)
		return ForbiddenWithInternal(
			xerrors.Errorf("no privilege grants action %q", action),
			authentication, action, request,
		)
	}
	a.metrics.decisions.WithLabelValues("allow").Inc()
	return nil
}
