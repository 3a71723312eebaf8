package advisor

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Task string

const (
	TaskRecommendCampaigns     Task = "recommend_campaigns"
	TaskCampaignSolutionPlan   Task = "campaign_solution_plan"
	TaskGrantInnovatorMatching Task = "grant_innovator_matching"
	TaskEvaluateSolution       Task = "evaluate_solution"
	TaskRevenueForecast        Task = "revenue_forecast"
)

var taskInstructions = map[Task]string{
	TaskRecommendCampaigns:     "Recommend climate campaigns this user is likely to fund, with a short reason for each.",
	TaskCampaignSolutionPlan:   "Draft a step-by-step climate solution plan for the campaign, with milestones and risks.",
	TaskGrantInnovatorMatching: "Match the grant with innovators whose work fits its goals, ranked by fit.",
	TaskEvaluateSolution:       `Evaluate the proposed solution for impact, feasibility and cost. Reply as JSON {"score": <0-100>, "summary": "<two sentences>"}.`,
	TaskRevenueForecast:        `Project the campaign's revenue for the next six months from its monthly history. Reply as JSON {"months": [{"month": "YYYY-MM", "amount": <number>}], "notes": "<one sentence>"}.`,
}

func (t Task) Valid() bool {
	_, ok := taskInstructions[t]
	return ok
}

type ResultStatus string

const (
	ResultOK     ResultStatus = "ok"
	ResultEmpty  ResultStatus = "empty"
	ResultFailed ResultStatus = "failed"
)

// Result is the outcome of an AI task. Value holds the decoded JSON reply,
// or the trimmed text when the reply was not JSON.
type Result struct {
	Status ResultStatus `json:"status"`
	Value  interface{}  `json:"value,omitempty"`
	Raw    string       `json:"raw,omitempty"`
	Err    error        `json:"-"`
}

func (r Result) OK() bool { return r.Status == ResultOK }

func buildTaskPrompt(task Task, userID string, taskCtx map[string]interface{}) string {
	if taskCtx == nil {
		taskCtx = map[string]interface{}{}
	}
	ctxJSON, err := json.Marshal(taskCtx)
	if err != nil {
		ctxJSON = []byte("{}")
	}
	return fmt.Sprintf("Task: %s\nInstructions: %s\nUser: %s\nContext: %s\nRespond in JSON if possible.",
		task, taskInstructions[task], userID, ctxJSON)
}

// parseReply decodes a JSON reply. Non-JSON replies are returned as text;
// a blank reply yields an empty result.
func parseReply(output string) Result {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return Result{Status: ResultEmpty, Raw: output}
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(stripFence(trimmed)), &decoded); err == nil {
		return Result{Status: ResultOK, Value: decoded, Raw: output}
	}
	return Result{Status: ResultOK, Value: trimmed, Raw: output}
}

// stripFence removes a surrounding markdown code fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
