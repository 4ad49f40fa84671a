package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/caseflow/caseflow/pkg/observability/logger"
	"github.com/caseflow/caseflow/pkg/observability/metrics"
	"github.com/caseflow/caseflow/pkg/tenant"
)

// Document is one entity record as returned by the store.
type Document map[string]interface{}

// SortField is one key of the resolved sort order.
type SortField struct {
	Field string
	Desc  bool
}

// Expansion is one resolved related-object path the store embeds into the
// returned documents.
type Expansion struct {
	Path     string
	Relation Relation
}

// Query is the fully resolved, store-agnostic read the engine hands to the
// executor. All bounding and tenant scoping has already been applied.
type Query struct {
	Collection   string
	Filter       *Expression
	DeletedField string
	Sort         []SortField
	Skip         int64
	Limit        int64
	Projection   []string
	Expansions   []Expansion
}

// Executor is the engine's port onto the underlying document store.
// Implementations translate the predicate algebra into the store's native
// query language and must honor context cancellation.
type Executor interface {
	// Fetch returns one sorted, bounded page of documents.
	Fetch(ctx context.Context, q Query) ([]Document, error)
	// Count returns the total number of documents matching q.Filter,
	// ignoring the pagination, sort and projection parts of q.
	Count(ctx context.Context, q Query) (int64, error)
	// ResolveIDs returns the distinct values of idField across all
	// documents matching q.Filter.
	ResolveIDs(ctx context.Context, q Query, idField string) ([]interface{}, error)
}

// PageInfo is the pagination metadata of a result envelope.
type PageInfo struct {
	Current      int    `json:"current"`
	TotalPages   int    `json:"total"`
	Count        int    `json:"count"`
	Limit        int    `json:"limit"`
	TotalRecords int64  `json:"totalRecords"`
	HasNext      bool   `json:"hasNext"`
	HasPrev      bool   `json:"hasPrev"`
	NextPage     *int   `json:"nextPage,omitempty"`
	PrevPage     *int   `json:"prevPage,omitempty"`
}

// Result is the uniform paginated envelope. Data is never nil; zero matches
// is a normal, successful, empty result.
type Result struct {
	Data       []Document `json:"data"`
	Pagination PageInfo   `json:"pagination"`
}

// SearchOptions are the pagination knobs of an advanced search, which takes a
// pre-structured expression instead of raw request parameters.
type SearchOptions struct {
	Page   int
	Limit  int
	Sort   string
	Expand []string
	Select []string
}

// Engine orchestrates pagination and search calls. It is stateless between
// calls and safe for concurrent use; per-call state never outlives the call.
type Engine struct {
	exec         Executor
	log          logger.Logger
	metrics      *metrics.QueryMetrics
	defaultLimit int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger to the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics attaches query metrics to the engine.
func WithMetrics(m *metrics.QueryMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithDefaultLimit sets the engine-wide page size for requests without one,
// typically from the loaded query.default_limit setting. Entity configurations
// declaring their own default still win; non-positive values are ignored.
func WithDefaultLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.defaultLimit = limit
		}
	}
}

// NewEngine creates an engine bound to a store executor.
func NewEngine(exec Executor, opts ...Option) (*Engine, error) {
	if exec == nil {
		return nil, fmt.Errorf("store executor is required")
	}
	e := &Engine{exec: exec, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Paginate translates the raw request into a filter expression, merges the
// caller-trusted override, and executes a bounded, tenant-scoped page read.
func (e *Engine) Paginate(ctx context.Context, cfg EntityConfig, req Request, override *Expression) (*Result, error) {
	start := time.Now()

	tenantID, _ := tenant.FromContext(ctx)
	expr, err := Translate(req, cfg, tenantID)
	if err != nil {
		e.observe(cfg.EntityType, "paginate", start, err)
		return nil, err
	}
	expr = expr.merge(override)

	res, err := e.execute(ctx, cfg, expr, plan{
		page:       resolvePage(req.Page),
		limit:      e.resolveLimit(cfg, req.Limit),
		sort:       parseSort(req.Sort, cfg.DefaultSort),
		expansions: resolveExpansions(cfg, req.Expand),
		projection: req.Select,
		debug:      req.Debug,
	})
	e.observe(cfg.EntityType, "paginate", start, err)
	return res, err
}

// AdvancedSearch executes an already-structured filter, bypassing the
// declarative translator. The expression is sanitized first: soft-delete
// marker keys that leaked in as ordinary predicates are stripped, and for
// tenant-required entities the tenant constraint is re-derived from the
// caller's context regardless of what the expression carries.
func (e *Engine) AdvancedSearch(ctx context.Context, cfg EntityConfig, criteria *Expression, opts SearchOptions) (*Result, error) {
	start := time.Now()

	expr := criteria.Clone()
	delete(expr.Predicates, cfg.DeletedField)
	if cfg.TenantRequired {
		tenantID, ok := tenant.FromContext(ctx)
		if !ok {
			err := NewTenantScopeError(cfg.EntityType)
			e.observe(cfg.EntityType, "advanced_search", start, err)
			return nil, err
		}
		expr.TenantField = cfg.TenantField
		expr.TenantID = tenantID
	}

	res, err := e.execute(ctx, cfg, expr, plan{
		page:       resolvePage(opts.Page),
		limit:      e.resolveLimit(cfg, opts.Limit),
		sort:       parseSort(opts.Sort, cfg.DefaultSort),
		expansions: resolveExpansions(cfg, opts.Expand),
		projection: opts.Select,
	})
	e.observe(cfg.EntityType, "advanced_search", start, err)
	return res, err
}

// SearchAcrossRelated filters child records by a search term that lives on a
// related parent entity. Phase one resolves the parent identifiers whose
// searchable fields match the term; phase two filters the child by membership
// of foreignKey in that identifier set. Zero parent matches short-circuits to
// an empty child result without touching the child collection. The phases are
// sequential because phase two depends on phase one's output.
func (e *Engine) SearchAcrossRelated(ctx context.Context, child, parent EntityConfig, foreignKey string, req Request) (*Result, error) {
	if strings.TrimSpace(req.Search) == "" {
		return e.Paginate(ctx, child, req, nil)
	}
	start := time.Now()

	tenantID, _ := tenant.FromContext(ctx)
	parentExpr := NewExpression()
	parentExpr.Search = &SearchClause{Term: req.Search, Fields: parent.SearchableFields}
	if parent.TenantRequired {
		if tenantID == "" {
			err := NewTenantScopeError(parent.EntityType)
			e.observe(child.EntityType, "related_search", start, err)
			return nil, err
		}
		parentExpr.TenantField = parent.TenantField
		parentExpr.TenantID = tenantID
	}

	ids, err := e.exec.ResolveIDs(ctx, Query{
		Collection:   parent.Collection,
		Filter:       parentExpr,
		DeletedField: parent.DeletedField,
	}, parent.IDField)
	if err != nil {
		err = NewStoreError(parent.EntityType, "resolve", parentExpr, err)
		e.observe(child.EntityType, "related_search", start, err)
		return nil, err
	}

	page := resolvePage(req.Page)
	limit := e.resolveLimit(child, req.Limit)
	if len(ids) == 0 {
		e.observe(child.EntityType, "related_search", start, nil)
		return emptyResult(page, limit), nil
	}

	childReq := req
	childReq.Search = "" // consumed by phase one
	expr, err := Translate(childReq, child, tenantID)
	if err != nil {
		e.observe(child.EntityType, "related_search", start, err)
		return nil, err
	}
	expr.Predicates[foreignKey] = In(ids...)

	res, err := e.execute(ctx, child, expr, plan{
		page:       page,
		limit:      limit,
		sort:       parseSort(req.Sort, child.DefaultSort),
		expansions: resolveExpansions(child, req.Expand),
		projection: req.Select,
		debug:      req.Debug,
	})
	e.observe(child.EntityType, "related_search", start, err)
	return res, err
}

// plan is the resolved per-call execution shape shared by all entry points.
type plan struct {
	page       int
	limit      int
	sort       []SortField
	expansions []Expansion
	projection []string
	debug      bool
}

// execute runs the fetch and count as two concurrent, independent store reads
// and assembles the envelope once both complete. Cancelling the caller's
// context cancels both promptly via the error group's derived context.
func (e *Engine) execute(ctx context.Context, cfg EntityConfig, expr *Expression, p plan) (*Result, error) {
	q := Query{
		Collection:   cfg.Collection,
		Filter:       expr,
		DeletedField: cfg.DeletedField,
		Sort:         p.sort,
		Skip:         int64(p.page-1) * int64(p.limit),
		Limit:        int64(p.limit),
		Projection:   p.projection,
		Expansions:   p.expansions,
	}

	if p.debug {
		e.debugTrace(ctx, cfg, q)
	}

	var (
		docs  []Document
		total int64
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fetched, err := e.exec.Fetch(gctx, q)
		if err != nil {
			return NewStoreError(cfg.EntityType, "fetch", expr, err)
		}
		docs = fetched
		return nil
	})
	group.Go(func() error {
		counted, err := e.exec.Count(gctx, q)
		if err != nil {
			return NewStoreError(cfg.EntityType, "count", expr, err)
		}
		total = counted
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []Document{}
	}
	return &Result{
		Data:       docs,
		Pagination: paginationInfo(p.page, p.limit, len(docs), total),
	}, nil
}

func (e *Engine) debugTrace(ctx context.Context, cfg EntityConfig, q Query) {
	log := e.log.WithContext(ctx).With("trace_id", uuid.NewString())
	log.Debug("resolved query",
		"entity_type", cfg.EntityType,
		"collection", q.Collection,
		"predicates", len(q.Filter.Predicates),
		"visibility", string(q.Filter.Visibility),
		"tenant_scoped", q.Filter.TenantField != "",
		"search", q.Filter.Search != nil,
		"skip", q.Skip,
		"limit", q.Limit,
		"sort", q.Sort,
		"expansions", len(q.Expansions),
	)
}

func (e *Engine) observe(entityType, op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		var denied *TenantScopeError
		if errors.As(err, &denied) {
			e.metrics.ObserveTenantDenial(entityType)
		}
	}
	e.metrics.ObserveQuery(entityType, op, status, time.Since(start))
}

// resolvePage clamps the requested page to at least 1.
func resolvePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// resolveLimit clamps the requested limit into [1, MaxLimit]. Absent or
// invalid limits fall back through the entity default, then the engine-wide
// default, then the package default, all capped at the entity ceiling.
func (e *Engine) resolveLimit(cfg EntityConfig, limit int) int {
	if limit < 1 {
		limit = cfg.DefaultLimit
		if limit < 1 {
			limit = e.defaultLimit
		}
		if limit < 1 {
			limit = DefaultLimit
		}
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		return cfg.MaxLimit
	}
	return limit
}

// parseSort resolves a comma-separated sort list into ordered sort keys.
// A leading '-' marks descending order. Inputs yielding no usable key, empty
// or degenerate like "-" or ",", fall back to the configured default.
func parseSort(sort, fallback string) []SortField {
	fields := parseSortSpec(sort)
	if len(fields) == 0 {
		fields = parseSortSpec(fallback)
	}
	return fields
}

func parseSortSpec(spec string) []SortField {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	var fields []SortField
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := false
		switch part[0] {
		case '-':
			desc = true
			part = part[1:]
		case '+':
			part = part[1:]
		}
		if part == "" {
			continue
		}
		fields = append(fields, SortField{Field: part, Desc: desc})
	}
	return fields
}

// resolveExpansions maps requested relation paths onto declared relations.
// An explicit request list fully replaces the configured default; paths with
// no declared relation are ignored.
func resolveExpansions(cfg EntityConfig, requested []string) []Expansion {
	paths := cfg.DefaultExpansion
	if requested != nil {
		paths = requested
	}

	var expansions []Expansion
	for _, path := range paths {
		path = strings.TrimSpace(path)
		rel, ok := cfg.Relations[path]
		if !ok {
			continue
		}
		expansions = append(expansions, Expansion{Path: path, Relation: rel})
	}
	return expansions
}

// paginationInfo assembles the envelope metadata from the effective page,
// limit, fetched count and total match count.
func paginationInfo(page, limit, count int, total int64) PageInfo {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	info := PageInfo{
		Current:      page,
		TotalPages:   totalPages,
		Count:        count,
		Limit:        limit,
		TotalRecords: total,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
	if info.HasNext {
		next := page + 1
		info.NextPage = &next
	}
	if info.HasPrev {
		prev := page - 1
		info.PrevPage = &prev
	}
	return info
}

func emptyResult(page, limit int) *Result {
	return &Result{
		Data:       []Document{},
		Pagination: paginationInfo(page, limit, 0, 0),
	}
}
