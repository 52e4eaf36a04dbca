package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/chart"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/coverage"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/decision"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/intent"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/models"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/repositories"
)

// NLResolver is the external natural-language collaborator: it proposes
// structured params for a question and phrases insights over queried rows.
type NLResolver interface {
	ResolveQuestion(ctx context.Context, question, windowTxt string) (*llm.Resolution, error)
	MakeInsight(ctx context.Context, in llm.InsightInput) (string, error)
}

// AskService runs the analytics resolution pipeline: intent -> template ->
// store -> decision -> response. It is stateless between requests.
type AskService struct {
	engine   repositories.QueryEngine
	guard    *coverage.Guard
	nl       NLResolver
	insights repositories.InsightRepo // optional
	charts   *chart.Store             // optional
}

func NewAskService(engine repositories.QueryEngine, guard *coverage.Guard, nl NLResolver, insights repositories.InsightRepo, charts *chart.Store) *AskService {
	return &AskService{
		engine:   engine,
		guard:    guard,
		nl:       nl,
		insights: insights,
		charts:   charts,
	}
}

// ResolvedAnswer is the query half of the pipeline: normalized params, the
// answer table and metadata for phrasing.
type ResolvedAnswer struct {
	Params intent.Params
	Rows   []map[string]interface{}
	Meta   models.QueryMetadata
	Window coverage.Window
}

// ResolveAndQuery normalizes raw intent params, binds one of the fixed
// query templates and executes it. Errors are either a whitelist rejection
// (*intent.ErrNotWhitelisted) or a store failure from the query engine.
func (s *AskService) ResolveAndQuery(ctx context.Context, raw intent.Params) (*ResolvedAnswer, error) {
	window := s.guard.Window(ctx)
	p := intent.Normalize(raw, window.Max)

	q, meta, err := intent.BuildQuery(p)
	if err != nil {
		return nil, err
	}

	rows, err := s.engine.ExecuteRead(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}

	status := coverage.Status(window, p.MonthKey, p.MonthFrom, p.MonthTo)
	answer := &ResolvedAnswer{
		Params: p,
		Rows:   rows,
		Window: window,
		Meta: models.QueryMetadata{
			KPIs:        meta,
			RangeStatus: status,
		},
	}
	if len(rows) == 0 {
		answer.Meta.EmptyReason = emptyReason(p.Intent, status)
	}
	return answer, nil
}

func emptyReason(intentName, status string) string {
	switch {
	case status == coverage.StatusOutOfRange:
		return models.EmptyPeriodNotCovered
	case intentName == intent.IntentMostNegativeProfit:
		return models.EmptyNoNegativeGroups
	default:
		return models.EmptyNoRows
	}
}

// Ask runs the whole pipeline for one question. It always returns a
// well-formed response; store and resolver failures degrade to a safe
// insight-only answer instead of surfacing.
func (s *AskService) Ask(ctx context.Context, question, displayPref string) *models.AskResponse {
	window := s.guard.Window(ctx)

	res, err := s.nl.ResolveQuestion(ctx, question, window.Text())
	if err != nil {
		log.Warn().Err(err).Msg("NL resolver failed, falling back to overview")
		res = &llm.Resolution{Display: "insight"}
	}

	answer, err := s.ResolveAndQuery(ctx, res.Params)
	if err != nil {
		log.Error().Err(err).Msg("query resolution failed")
		return s.safeFailureResponse(question, window)
	}

	pref := decision.NormalizePreference(displayPref)
	mode := decision.Decide(res.Display, pref, answer.Rows)

	resp := &models.AskResponse{
		Question: question,
		Mode:     string(mode),
		Params:   answer.Params,
		Rows:     answer.Rows,
		Meta:     answer.Meta,
		Coverage: answer.Window,
	}

	if mode == decision.ModeChart {
		s.attachChart(resp, res.Viz, answer.Rows)
	}

	resp.InsightText = s.insightText(ctx, question, answer)

	s.logInsight(resp, res.Viz)
	return resp
}

// AnswerTable resolves the question and returns the raw query result
// without generating insight text. The export endpoint uses this to
// produce downloadable answer tables.
func (s *AskService) AnswerTable(ctx context.Context, question string) (*ResolvedAnswer, error) {
	window := s.guard.Window(ctx)

	res, err := s.nl.ResolveQuestion(ctx, question, window.Text())
	if err != nil {
		log.Warn().Err(err).Msg("NL resolver failed, falling back to overview")
		res = &llm.Resolution{}
	}
	return s.ResolveAndQuery(ctx, res.Params)
}

// attachChart validates the upstream viz spec against the actual rows and
// assembles the chart payload. An invalid spec downgrades the response to
// insight; it is never an error.
func (s *AskService) attachChart(resp *models.AskResponse, spec *chart.Spec, rows []map[string]interface{}) {
	if err := spec.Validate(rows); err != nil {
		log.Warn().Err(err).Msg("chart spec rejected, downgrading to insight")
		resp.Mode = string(decision.ModeInsight)
		return
	}

	data := chart.Build(rows, *spec)
	resp.Chart = &data

	if s.charts != nil {
		rel, err := s.charts.Save(data)
		if err != nil {
			log.Warn().Err(err).Msg("failed to persist chart payload")
			return
		}
		resp.ChartURL = "/static/" + rel
	}
}

func (s *AskService) insightText(ctx context.Context, question string, answer *ResolvedAnswer) string {
	if len(answer.Rows) == 0 {
		switch answer.Meta.EmptyReason {
		case models.EmptyPeriodNotCovered:
			return fmt.Sprintf("No data for the requested period; data covers %s.", answer.Window.Text())
		case models.EmptyNoNegativeGroups:
			return "No group ran at a loss in the requested month."
		default:
			return "No matching data for this question."
		}
	}

	text, err := s.nl.MakeInsight(ctx, llm.InsightInput{
		Question:    question,
		Intent:      answer.Params.Intent,
		WindowText:  answer.Window.Text(),
		RangeStatus: answer.Meta.RangeStatus,
		Rows:        answer.Rows,
	})
	if err != nil || text == "" {
		log.Warn().Err(err).Msg("insight generation failed, using fallback text")
		return fmt.Sprintf("Found %d matching rows; see the answer table.", len(answer.Rows))
	}
	return text
}

func (s *AskService) safeFailureResponse(question string, window coverage.Window) *models.AskResponse {
	text := "The sales data store is not available right now."
	if window.Known() {
		text = fmt.Sprintf("Could not answer from the store; known data covers %s.", window.Text())
	}
	return &models.AskResponse{
		Question:    question,
		Mode:        string(decision.ModeInsight),
		InsightText: text,
		Coverage:    window,
		Meta:        models.QueryMetadata{RangeStatus: coverage.StatusUnknown},
	}
}

// logInsight appends to the analyst diary, best effort.
func (s *AskService) logInsight(resp *models.AskResponse, spec *chart.Spec) {
	if s.insights == nil {
		return
	}

	params, _ := json.Marshal(resp.Params)
	entry := &models.InsightLog{
		Question:    resp.Question,
		Mode:        resp.Mode,
		InsightText: resp.InsightText,
		Params:      params,
	}
	if spec != nil {
		if encoded, err := json.Marshal(spec); err == nil {
			entry.ChartSpec = encoded
		}
	}
	if err := s.insights.Create(entry); err != nil {
		log.Warn().Err(err).Msg("failed to log insight")
	}
}
