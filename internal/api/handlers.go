package api

import (
    "context"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    log "github.com/sirupsen/logrus"

    "routesolve/internal/config"
    "routesolve/internal/metrics"
    "routesolve/internal/model"
    "routesolve/internal/solver"
    "routesolve/internal/store"
)

// SolveHandler handles POST /v1/solve
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    if s.Limiter != nil && !s.Limiter.Allow() {
        writeProblem(w, http.StatusTooManyRequests, "Rate limited", "solve rate limit exceeded", r.URL.Path)
        return
    }
    body, err := io.ReadAll(r.Body)
    if err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error(), r.URL.Path)
        return
    }
    var req model.SolveRequest
    if err := json.Unmarshal(body, &req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
        return
    }
    if req.TenantID == "" { _, req.TenantID = s.withTenant(r) }
    if cfg, err := s.Store.GetSolverConfig(r.Context(), req.TenantID); err == nil {
        applyTenantDefaults(&req, cfg)
    }
    if req.SearchParams == nil && s.Cfg.Search != (config.SearchDefaults{}) {
        req.SearchParams = &model.SearchParams{
            Seed:          s.Cfg.Search.Seed,
            MaxIterations: s.Cfg.Search.MaxIterations,
            InitTemp:      s.Cfg.Search.InitTemp,
            Cooling:       s.Cfg.Search.Cooling,
        }
    }

    m, err := solver.Compile(&req)
    if err != nil {
        writeCompileProblem(w, err, r.URL.Path)
        return
    }

    digest := sha256.Sum256(body)
    run := model.SolveRun{
        ID:            uuid.New().String(),
        TenantID:      req.TenantID,
        RequestDigest: hex.EncodeToString(digest[:]),
        Locations:     len(m.Distance),
        Vehicles:      m.NumVehicles,
    }
    s.publishSolve(run.ID, SSEEvent{Type: "solve.started", Data: map[string]any{"solveId": run.ID, "tenantId": req.TenantID}})

    start := time.Now()
    res := m.Solve()
    elapsed := time.Since(start)

    resp := model.NewSolveResponse()
    resp.Routes = res.Routes
    resp.DroppedNodeIndices = res.Dropped
    resp.Error = res.Err
    resp.SolveID = run.ID

    status := model.RunCompleted
    if res.Err != "" { status = model.RunError }
    if res.NoSolution { status = model.RunNoSolution }

    run.Status = status
    run.Routes = res.Routes
    run.Dropped = res.Dropped
    run.Error = res.Err
    run.Warnings = res.Warnings
    run.DurationMs = elapsed.Milliseconds()
    run.Metrics = wireMetrics(res)
    if _, err := s.Store.CreateSolveRun(r.Context(), run); err != nil {
        log.WithError(err).Warn("failed to persist solve run")
    }

    metrics.Solves.WithLabelValues(status).Inc()
    metrics.SolveDuration.WithLabelValues(status).Observe(elapsed.Seconds())
    metrics.DroppedVisits.Add(float64(len(res.Dropped)))
    metrics.SearchIterations.Observe(float64(res.Metrics.Iterations))

    evtType := "solve.completed"
    if status != model.RunCompleted { evtType = "solve.failed" }
    s.publishSolve(run.ID, SSEEvent{Type: evtType, Data: map[string]any{"solveId": run.ID, "status": status, "durationMs": run.DurationMs}})

    writeJSON(w, http.StatusOK, resp)
}

// publishSolve fans an event out to the per-solve channel and the "all"
// firehose that dashboards subscribe to before solve ids exist.
func (s *Server) publishSolve(id string, evt SSEEvent) {
    s.Broker.Publish(id, evt)
    s.Broker.Publish("all", evt)
}

// wireMetrics converts engine search metrics into the persisted wire form.
func wireMetrics(res *solver.Result) *model.SolveMetrics {
    em := res.Metrics
    out := &model.SolveMetrics{
        Iterations:     em.Iterations,
        Improvements:   em.Improvements,
        AcceptedWorse:  em.AcceptedWorse,
        BestCost:       em.BestCost,
        FinalCost:      em.FinalCost,
        RemovalSelects: em.RemovalSelects,
        InsertSelects:  em.InsertSelects,
    }
    for _, snap := range em.Snapshots {
        out.Weights = append(out.Weights, model.WeightSnapshot{Iteration: snap.Iteration, Removal: snap.Removal, Insertion: snap.Insertion})
    }
    return out
}

// applyTenantDefaults fills request fields the caller left unset from the
// tenant's stored solver config.
func applyTenantDefaults(req *model.SolveRequest, cfg model.SolverConfig) {
    if req.DropVisitPenalty == nil && cfg.DropVisitPenalty != nil {
        v := *cfg.DropVisitPenalty
        req.DropVisitPenalty = &v
    }
    if req.DirectionPenaltyWeight == nil && cfg.DirectionPenaltyWeight != nil {
        v := *cfg.DirectionPenaltyWeight
        req.DirectionPenaltyWeight = &v
    }
    if !req.AllowDroppingVisits && cfg.AllowDroppingVisits != nil {
        req.AllowDroppingVisits = *cfg.AllowDroppingVisits
    }
    if req.SearchParams == nil && cfg.SearchParams != nil {
        sp := *cfg.SearchParams
        req.SearchParams = &sp
    }
}

// SolvesHandler handles GET /v1/solves
func (s *Server) SolvesHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    _, tenant := s.withTenant(r)
    cursor := r.URL.Query().Get("cursor")
    limit := 100
    if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
    items, next, err := s.Store.ListSolveRuns(r.Context(), tenant, cursor, limit)
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "List solves failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// SolveByIDHandler handles GET /v1/solves/{id} and /v1/solves/{id}/events/stream
func (s *Server) SolveByIDHandler(w http.ResponseWriter, r *http.Request) {
    rest := strings.TrimPrefix(r.URL.Path, "/v1/solves/")
    if rest == r.URL.Path || rest == "" {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
        return
    }
    parts := strings.Split(rest, "/")
    id := parts[0]
    if len(parts) > 1 && parts[1] == "events" && len(parts) > 2 && parts[2] == "stream" {
        s.streamSolveEvents(w, r, id)
        return
    }
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    _, tenant := s.withTenant(r)
    run, err := s.Store.GetSolveRun(r.Context(), tenant, id)
    if err != nil {
        if err == store.ErrNotFound {
            writeProblem(w, http.StatusNotFound, "Solve not found", "", r.URL.Path)
            return
        }
        writeProblem(w, http.StatusInternalServerError, "Get solve failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, run)
}

func (s *Server) streamSolveEvents(w http.ResponseWriter, r *http.Request, id string) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    flusher, ok := w.(http.Flusher)
    if !ok { writeProblem(w, 500, "Streaming unsupported", "", r.URL.Path); return }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    ch := s.Broker.Subscribe(id)
    defer s.Broker.Unsubscribe(id, ch)
    // initial heartbeat
    fmt.Fprintf(w, "event: heartbeat\n")
    fmt.Fprintf(w, "data: {\"solveId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
    flusher.Flush()
    notify := r.Context().Done()
    for {
        select {
        case <-notify:
            return
        case evt := <-ch:
            b, _ := json.Marshal(evt.Data)
            fmt.Fprintf(w, "event: %s\n", evt.Type)
            fmt.Fprintf(w, "data: %s\n\n", string(b))
            flusher.Flush()
        case <-time.After(15 * time.Second):
            fmt.Fprintf(w, "event: heartbeat\n")
            fmt.Fprintf(w, "data: {\"solveId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
            flusher.Flush()
        }
    }
}

// SolverConfigHandler returns the effective solver defaults for the tenant
func (s *Server) SolverConfigHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/solver/config" || r.Method != http.MethodGet { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
    defaults := map[string]any{
        "dropVisitPenalty": model.DefaultDropPenalty,
        "directionPenaltyWeight": 1.0,
        "allowDroppingVisits": false,
        "tripType": model.TripPickup,
        "search": map[string]any{"initTemp": 1.0, "cooling": 0.995, "maxIterations": 0},
    }
    _, tenant := s.withTenant(r)
    cfg, err := s.Store.GetSolverConfig(r.Context(), tenant)
    if err == nil {
        if cfg.DropVisitPenalty != nil { defaults["dropVisitPenalty"] = *cfg.DropVisitPenalty }
        if cfg.DirectionPenaltyWeight != nil { defaults["directionPenaltyWeight"] = *cfg.DirectionPenaltyWeight }
        if cfg.AllowDroppingVisits != nil { defaults["allowDroppingVisits"] = *cfg.AllowDroppingVisits }
        if cfg.SearchParams != nil { defaults["search"] = cfg.SearchParams }
    }
    writeJSON(w, 200, map[string]any{"defaults": defaults})
}

// AdminSolverConfigHandler gets/sets per-tenant solver config
func (s *Server) AdminSolverConfigHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/admin/solver/config" { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
    _, tenant := s.withTenant(r)
    switch r.Method {
    case http.MethodGet:
        cfg, err := s.Store.GetSolverConfig(r.Context(), tenant)
        if err != nil { writeProblem(w, 500, "Get config failed", err.Error(), r.URL.Path); return }
        writeJSON(w, 200, map[string]any{"config": cfg})
    case http.MethodPut:
        var body struct{ Config *model.SolverConfig `json:"config"` }
        if err := json.NewDecoder(r.Body).Decode(&body); err != nil { writeProblem(w, 400, "Invalid JSON", err.Error(), r.URL.Path); return }
        if body.Config == nil { writeProblem(w, 400, "Missing config", "", r.URL.Path); return }
        if err := validateSolverConfig(body.Config); err != nil { writeProblem(w, 400, "Invalid config", err.Error(), r.URL.Path); return }
        if err := s.Store.SaveSolverConfig(r.Context(), tenant, *body.Config); err != nil { writeProblem(w, 500, "Save failed", err.Error(), r.URL.Path); return }
        writeJSON(w, 200, map[string]bool{"ok": true})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func validateSolverConfig(cfg *model.SolverConfig) error {
    if cfg.DropVisitPenalty != nil && *cfg.DropVisitPenalty < 0 {
        return fmt.Errorf("dropVisitPenalty must be >= 0")
    }
    if cfg.SearchParams != nil {
        sp := cfg.SearchParams
        if sp.MaxIterations < 0 { return fmt.Errorf("maxIterations must be >= 0") }
        if sp.Cooling != 0 && (sp.Cooling <= 0 || sp.Cooling >= 1) { return fmt.Errorf("cooling must be in (0,1)") }
        if sp.InitTemp < 0 { return fmt.Errorf("initTemp must be >= 0") }
    }
    return nil
}

// SolveMetricsHandler handles GET /v1/admin/solve-metrics
func (s *Server) SolveMetricsHandler(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/v1/admin/solve-metrics" || r.Method != http.MethodGet { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
    _, tenant := s.withTenant(r)
    cursor := r.URL.Query().Get("cursor")
    limit := 100
    if v := r.URL.Query().Get("limit"); v != "" { fmt.Sscanf(v, "%d", &limit) }
    includeWeights := false
    if v := r.URL.Query().Get("includeWeights"); strings.EqualFold(v, "true") || v == "1" { includeWeights = true }
    runs, next, err := s.Store.ListSolveRuns(r.Context(), tenant, cursor, limit)
    if err != nil { writeProblem(w, 500, "Metrics failed", err.Error(), r.URL.Path); return }
    items := []map[string]any{}
    for _, run := range runs {
        if run.Metrics == nil { continue }
        item := map[string]any{
            "solveId": run.ID,
            "status": run.Status,
            "durationMs": run.DurationMs,
            "iterations": run.Metrics.Iterations,
            "improvements": run.Metrics.Improvements,
            "acceptedWorse": run.Metrics.AcceptedWorse,
            "bestCost": run.Metrics.BestCost,
            "finalCost": run.Metrics.FinalCost,
            "removalSelects": []int{run.Metrics.RemovalSelects[0], run.Metrics.RemovalSelects[1]},
            "insertSelects": []int{run.Metrics.InsertSelects[0], run.Metrics.InsertSelects[1]},
        }
        if includeWeights && len(run.Metrics.Weights) > 0 { item["weights"] = run.Metrics.Weights }
        items = append(items, item)
    }
    writeJSON(w, 200, map[string]any{"items": items, "nextCursor": next})
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    // Check DB connectivity when using Postgres store
    type pinger interface{ Ping(ctx context.Context) error }
    if pg, ok := s.Store.(pinger); ok {
        ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
        defer cancel()
        if err := pg.Ping(ctx); err != nil { writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path); return }
    }
    writeJSON(w, 200, map[string]string{"status": "ready"})
}
