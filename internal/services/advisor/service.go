// Package advisor is the AI advisory layer: free-form questions, fixed
// analysis tasks and cached related-campaign recommendations.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/services/campaign"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MaxRecommendations bounds a generated recommendation list.
const MaxRecommendations = 5

// CampaignSource is the read side of the campaign store.
type CampaignSource interface {
	All(ctx context.Context) ([]models.Campaign, error)
	GetByID(ctx context.Context, id uint) (*models.Campaign, error)
	SetAssessment(ctx context.Context, id uint, score *float64, summary string) (*models.Campaign, error)
}

// RevenueSource supplies the revenue history used for forecasts.
type RevenueSource interface {
	CampaignRevenue(ctx context.Context, campaignID uint) (*models.RevenueSummary, error)
}

// CampaignRef is the part of a campaign a client sends along with a question.
type CampaignRef struct {
	Title string `json:"title"`
}

type Service interface {
	RunTask(ctx context.Context, userID string, task Task, taskCtx map[string]interface{}) Result
	GenerateAndCacheRecommendations(ctx context.Context, campaignID uint) ([]string, error)
	Recommendations(ctx context.Context, campaignID uint) ([]string, error)
	GenerateSolutionPlan(ctx context.Context, userID string, campaignID uint) (Result, error)
	EvaluateCampaign(ctx context.Context, actor models.Actor, campaignID uint) (Result, error)
	ForecastRevenue(ctx context.Context, userID string, campaignID uint) (Result, error)
	Ask(ctx context.Context, query string, campaigns []CampaignRef, userID string) (string, error)
}

type service struct {
	chat            ChatCompleter
	campaigns       CampaignSource
	revenues        RevenueSource
	recommendations repositories.RecommendationRepository
	contents        repositories.AIContentRepository
	log             *logrus.Logger
}

func NewService(
	chat ChatCompleter,
	campaigns CampaignSource,
	revenues RevenueSource,
	recommendations repositories.RecommendationRepository,
	contents repositories.AIContentRepository,
	log *logrus.Logger,
) Service {
	if chat == nil {
		chat = Unconfigured{}
	}
	return &service{
		chat:            chat,
		campaigns:       campaigns,
		revenues:        revenues,
		recommendations: recommendations,
		contents:        contents,
		log:             log,
	}
}

// RunTask never returns a Go error; failures are reported in the Result
// and logged.
func (s *service) RunTask(ctx context.Context, userID string, task Task, taskCtx map[string]interface{}) Result {
	if !task.Valid() {
		return Result{Status: ResultFailed, Err: ErrUnknownTask}
	}

	output, err := s.chat.Complete(ctx, []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleUser,
		Content: buildTaskPrompt(task, userID, taskCtx),
	}})
	if err != nil {
		s.log.WithError(err).WithField("task", task).Error("AI task failed")
		return Result{Status: ResultFailed, Err: err}
	}
	return parseReply(output)
}

// GenerateAndCacheRecommendations asks the model for campaigns related to
// campaignID, drops ids that do not exist and stores the list, even when it
// ends up empty.
func (s *service) GenerateAndCacheRecommendations(ctx context.Context, campaignID uint) ([]string, error) {
	campaigns, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		return []string{}, nil
	}

	known := make(map[string]bool, len(campaigns))
	var target *models.Campaign
	var catalogue strings.Builder
	for i := range campaigns {
		c := &campaigns[i]
		id := strconv.FormatUint(uint64(c.ID), 10)
		known[id] = true
		if c.ID == campaignID {
			target = c
		}
		fmt.Fprintf(&catalogue, "- %s: %s (%s)\n", id, c.Title, c.Sector)
	}
	if target == nil {
		return nil, ErrCampaignNotFound
	}

	prompt := fmt.Sprintf(
		"You are a climate innovation AI advisor.\n"+
			"Campaigns:\n%s\n"+
			"Given these campaigns, recommend the top %d related to %d (%s).\n"+
			`Return ONLY JSON: {"campaignIds": ["id1","id2","id3"], "score": <confidence 0-1>}.`,
		catalogue.String(), MaxRecommendations, campaignID, target.Title)

	output, err := s.chat.Complete(ctx, []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	}})
	if err != nil {
		s.log.WithError(err).WithField("campaign_id", campaignID).Error("recommendation request failed")
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	candidates, score := parseRecommendationReply(output)
	self := strconv.FormatUint(uint64(campaignID), 10)
	recommended := make([]string, 0, MaxRecommendations)
	seen := map[string]bool{}
	for _, id := range candidates {
		if !known[id] || id == self || seen[id] {
			continue
		}
		seen[id] = true
		recommended = append(recommended, id)
		if len(recommended) == MaxRecommendations {
			break
		}
	}

	if err := s.recommendations.Create(ctx, &models.AIRecommendation{
		CampaignID:             campaignID,
		RecommendedCampaignIDs: recommended,
		Score:                  score,
	}); err != nil {
		return nil, fmt.Errorf("failed to store recommendations: %w", err)
	}
	s.storeContent(ctx, campaignID, models.AIContentRecommendation, output)

	s.log.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"count":       len(recommended),
	}).Info("recommendations cached")
	return recommended, nil
}

// Recommendations returns the newest cached list, or an empty list.
func (s *service) Recommendations(ctx context.Context, campaignID uint) ([]string, error) {
	rec, err := s.recommendations.LatestByCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	if rec.RecommendedCampaignIDs == nil {
		return []string{}, nil
	}
	return rec.RecommendedCampaignIDs, nil
}

// GenerateSolutionPlan runs the solution-plan task for a campaign and keeps
// the reply as generated content.
func (s *service) GenerateSolutionPlan(ctx context.Context, userID string, campaignID uint) (Result, error) {
	c, err := s.campaign(ctx, campaignID)
	if err != nil {
		return Result{}, err
	}

	result := s.RunTask(ctx, userID, TaskCampaignSolutionPlan, map[string]interface{}{
		"campaignId":  c.ID,
		"title":       c.Title,
		"description": c.Description,
		"sector":      c.Sector,
		"location":    c.Location,
	})
	if result.Status != ResultOK {
		return result, nil
	}

	id := c.ID
	if err := s.contents.Create(ctx, &models.AIContent{
		CampaignID: &id,
		Type:       models.AIContentSolution,
		Content:    strings.TrimSpace(result.Raw),
	}); err != nil {
		return result, fmt.Errorf("failed to store solution plan: %w", err)
	}
	return result, nil
}

// EvaluateCampaign scores the campaign and keeps the score and summary on
// the campaign itself. Only the owner or an admin may trigger it.
func (s *service) EvaluateCampaign(ctx context.Context, actor models.Actor, campaignID uint) (Result, error) {
	c, err := s.campaign(ctx, campaignID)
	if err != nil {
		return Result{}, err
	}
	if !actor.CanManage(c.OwnerID) {
		return Result{}, ErrForbidden
	}

	result := s.RunTask(ctx, actor.ExternalID, TaskEvaluateSolution, map[string]interface{}{
		"campaignId":    c.ID,
		"title":         c.Title,
		"description":   c.Description,
		"sector":        c.Sector,
		"location":      c.Location,
		"fundingGoal":   c.FundingGoal,
		"minInvestment": c.MinInvestment,
	})
	if result.Status != ResultOK {
		return result, nil
	}

	score, summary := parseAssessment(result)
	if _, err := s.campaigns.SetAssessment(ctx, c.ID, score, summary); err != nil {
		return result, fmt.Errorf("failed to store assessment: %w", err)
	}
	s.storeContent(ctx, c.ID, models.AIContentSummary, summary)
	return result, nil
}

// ForecastRevenue projects campaign revenue from its monthly history and
// keeps the reply as generated content.
func (s *service) ForecastRevenue(ctx context.Context, userID string, campaignID uint) (Result, error) {
	c, err := s.campaign(ctx, campaignID)
	if err != nil {
		return Result{}, err
	}
	summary, err := s.revenues.CampaignRevenue(ctx, c.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load revenue: %w", err)
	}

	result := s.RunTask(ctx, userID, TaskRevenueForecast, map[string]interface{}{
		"campaignId":  c.ID,
		"title":       c.Title,
		"sector":      c.Sector,
		"fundingGoal": c.FundingGoal,
		"total":       summary.Total,
		"completed":   summary.Completed,
		"history":     monthlyRevenue(summary.Entries),
	})
	if result.Status != ResultOK {
		return result, nil
	}
	s.storeContent(ctx, c.ID, models.AIContentForecast, result.Raw)
	return result, nil
}

func (s *service) campaign(ctx context.Context, id uint) (*models.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, campaign.ErrCampaignNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

// storeContent keeps generated text. A failed write is logged only; the
// caller already has the reply.
func (s *service) storeContent(ctx context.Context, campaignID uint, kind, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	id := campaignID
	if err := s.contents.Create(ctx, &models.AIContent{CampaignID: &id, Type: kind, Content: content}); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"campaign_id": campaignID,
			"type":        kind,
		}).Warn("failed to store AI content")
	}
}

func (s *service) Ask(ctx context.Context, query string, campaigns []CampaignRef, userID string) (string, error) {
	if strings.TrimSpace(query) == "" || strings.TrimSpace(userID) == "" {
		return "", ErrMissingFields
	}

	campaignLine := "No campaigns currently available."
	if len(campaigns) > 0 {
		titles := make([]string, 0, len(campaigns))
		for _, c := range campaigns {
			titles = append(titles, c.Title)
		}
		campaignLine = fmt.Sprintf("Current active campaigns: %s.", strings.Join(titles, ", "))
	}

	prompt := fmt.Sprintf(`You are Cultivate AI, an environmental agent specialized in analyzing and recommending climate and sustainability solutions.

User: %s
%s

Question: %s

Provide actionable insights and recommendations.
`, userID, campaignLine, query)

	output, err := s.chat.Complete(ctx, []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt,
	}})
	if err != nil {
		s.log.WithError(err).Error("AI ask failed")
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	return output, nil
}

// parseIDList accepts a JSON array of strings or numbers. Anything else
// yields no ids.
func parseIDList(output string) []string {
	var raw []interface{}
	if err := json.Unmarshal([]byte(stripFence(strings.TrimSpace(output))), &raw); err != nil {
		return nil
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		switch id := v.(type) {
		case string:
			ids = append(ids, strings.TrimSpace(id))
		case float64:
			ids = append(ids, strconv.FormatFloat(id, 'f', -1, 64))
		}
	}
	return ids
}

// parseRecommendationReply accepts {"campaignIds": [...], "score": n} or a
// bare id array.
func parseRecommendationReply(output string) ([]string, *float64) {
	trimmed := stripFence(strings.TrimSpace(output))
	var wrapped struct {
		CampaignIDs json.RawMessage `json:"campaignIds"`
		Score       *float64        `json:"score"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && wrapped.CampaignIDs != nil {
		return parseIDList(string(wrapped.CampaignIDs)), wrapped.Score
	}
	return parseIDList(trimmed), nil
}

// parseAssessment reads {"score", "summary"} from an evaluation. A plain
// text reply becomes the summary with no score.
func parseAssessment(result Result) (*float64, string) {
	switch v := result.Value.(type) {
	case map[string]interface{}:
		var score *float64
		if n, ok := v["score"].(float64); ok {
			score = &n
		}
		summary, _ := v["summary"].(string)
		return score, strings.TrimSpace(summary)
	case string:
		return nil, v
	}
	return nil, strings.TrimSpace(result.Raw)
}

type monthTotal struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// monthlyRevenue sums revenue rows per calendar month, oldest first.
func monthlyRevenue(revs []models.Revenue) []monthTotal {
	sums := map[string]decimal.Decimal{}
	for _, r := range revs {
		month := r.CreatedAt.UTC().Format("2006-01")
		sums[month] = sums[month].Add(decimal.NewFromFloat(r.Amount))
	}

	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]monthTotal, 0, len(months))
	for _, m := range months {
		out = append(out, monthTotal{Month: m, Amount: sums[m].InexactFloat64()})
	}
	return out
}
