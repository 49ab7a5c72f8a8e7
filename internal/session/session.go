// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package session runs self-contained JSON queries: a request carries a
// whole network, the evidence and the operation to perform (MPE, MAP or
// DECISION), and receives a JSON response.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dalzilio/dvn"
)

var tracer = otel.Tracer("dvn.session")

// Observer receives a record for every request run by a Runner.
type Observer interface {
	ObserveQuery(op, status string, d time.Duration)
	ObserveFactorSize(n int)
}

// Runner executes requests. A Runner has no mutable state and can be used
// concurrently: every request builds its own factor set.
type Runner struct {
	logger   *slog.Logger
	observer Observer
	options  []dvn.Option
}

// New returns a Runner. The options are used for every factor set built by
// the runner.
func New(logger *slog.Logger, observer Observer, options ...dvn.Option) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger, observer: observer, options: options}
}

// Run decodes a request and executes it. Malformed JSON gives the "parse
// error" response.
func (r *Runner) Run(ctx context.Context, data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		r.logger.DebugContext(ctx, "malformed request", slog.String("error", err.Error()))
		return r.fail(ctx, "", ErrParse, time.Now())
	}
	return r.Execute(ctx, &req)
}

// Execute runs a decoded request.
func (r *Runner) Execute(ctx context.Context, req *Request) Response {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "session.Execute",
		trace.WithAttributes(
			attribute.String("dvn.op", req.Op),
			attribute.Int("dvn.variables", len(req.VarDb)),
			attribute.Int("dvn.factors", len(req.FactorSet)),
		),
	)
	defer span.End()

	if len(req.VarDb) == 0 {
		return r.fail(ctx, req.Op, ErrNoVars, start)
	}
	if req.Op == "" {
		return r.fail(ctx, req.Op, ErrNoOperation, start)
	}
	if req.Op != OpMPE && req.Op != OpMAP && req.Op != OpDecision {
		return r.fail(ctx, req.Op, ErrUnsupported, start)
	}

	fs, err := req.network().Build(r.options...)
	if err != nil {
		span.RecordError(err)
		return r.fail(ctx, req.Op, err.Error(), start)
	}
	cat := fs.Catalog()
	evidence, err := req.evidence(cat)
	if err != nil {
		return r.fail(ctx, req.Op, err.Error(), start)
	}

	res := Response{ID: uuid.NewString(), op: req.Op}
	switch req.Op {
	case OpMPE:
		var result dvn.Result
		if result, err = fs.MPE(evidence); err == nil {
			res.MPE = factorJSON(result.Factor)
			res.Clause = clauseJSON(result.Assignment)
		}
	case OpMAP:
		var query dvn.VarSet
		if query, err = req.query(cat); err != nil {
			break
		}
		var result dvn.Result
		if result, err = fs.MAP(query, evidence); err == nil {
			res.MAP = factorJSON(result.Factor)
			res.Clause = clauseJSON(result.Assignment)
		}
	case OpDecision:
		var policy *dvn.Policy
		if policy, err = fs.SolveDecisionPolicy(); err == nil {
			decisions, value := policy.Resolve(evidence)
			res.Decision = clauseJSON(decisions)
			res.Value = &value
			res.Policy = policyJSON(policy)
		}
	}
	res.stats = fs.Stats()
	if err != nil {
		span.RecordError(err)
		status := err.Error()
		if errors.Is(err, dvn.ErrFactorTooLarge) {
			status = "factor too large"
		}
		return r.fail(ctx, req.Op, status, start)
	}

	span.SetAttributes(attribute.Int("dvn.largest_factor", res.stats.LargestFactor))
	r.logger.InfoContext(ctx, "query completed",
		slog.String("id", res.ID),
		slog.String("op", req.Op),
		slog.Int("merges", res.stats.Merges),
		slog.Int("largest_factor", res.stats.LargestFactor),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	r.observe(req.Op, "ok", start, res.stats.LargestFactor)
	return res
}

func (r *Runner) fail(ctx context.Context, op, msg string, start time.Time) Response {
	res := Response{ID: uuid.NewString(), Error: msg, op: op}
	trace.SpanFromContext(ctx).SetStatus(codes.Error, msg)
	r.logger.WarnContext(ctx, "query failed",
		slog.String("id", res.ID),
		slog.String("op", op),
		slog.String("error", msg),
	)
	r.observe(op, "error", start, 0)
	return res
}

func (r *Runner) observe(op, status string, start time.Time, size int) {
	if r.observer == nil {
		return
	}
	switch op {
	case OpMPE, OpMAP, OpDecision:
	default:
		op = "unknown"
	}
	r.observer.ObserveQuery(op, status, time.Since(start))
	if size > 0 {
		r.observer.ObserveFactorSize(size)
	}
}
