package api

import (
    "context"
    "net/http"
    "strings"

    "golang.org/x/time/rate"

    "routesolve/internal/config"
    "routesolve/internal/store"
)

type Server struct {
    Store   store.Store
    Broker  EventBroker
    Limiter *rate.Limiter
    Cfg     config.Config
}

// NewServer creates a Server. If database_url is unset, uses in-memory store.
func NewServer(cfg config.Config) (*Server, error) {
    var s store.Store
    if strings.TrimSpace(cfg.DatabaseURL) == "" {
        s = store.NewMemory()
    } else {
        sp, err := store.NewPostgres(cfg.DatabaseURL)
        if err != nil {
            return nil, err
        }
        s = sp
    }
    var broker EventBroker
    if cfg.RedisURL != "" {
        if rb, err := NewRedisBroker(cfg.RedisURL); err == nil { broker = rb } else { broker = NewBroker() }
    } else {
        broker = NewBroker()
    }
    limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
    return &Server{Store: s, Broker: broker, Limiter: limiter, Cfg: cfg}, nil
}

func (s *Server) withTenant(r *http.Request) (context.Context, string) {
    // For now, get tenant from header; in production decode from JWT.
    tenant := r.Header.Get("X-Tenant-Id")
    if tenant == "" { tenant = "t_demo" }
    ctx := context.WithValue(r.Context(), ctxKeyTenant{}, tenant)
    return ctx, tenant
}

type ctxKeyTenant struct{}
