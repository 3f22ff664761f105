package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agrisite/internal/database"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAdvisor answers a free-form question about the registered land data.
// The model is given read-only tools over the aggregation engine; it never
// mutates the store.
func RunAdvisor(question string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are an agricultural land advisor for a land registry.

RULES:
1. OVERVIEW: For questions about total land, holders, parcels or utilization, call 'get_land_overview' first.
2. CROPS: For questions about crop performance, yield or revenue, call 'get_crop_productivity' and read the JSON before answering.
3. IRRIGATION: For questions about irrigation or water use, call 'get_irrigation_efficiency'.
4. Base every figure you quote on tool output. Do not invent numbers.

USER: %s`, today, question)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "get_land_overview",
					Description: "Get headline registry figures: holder/parcel counts, cultivated area and land utilization rate.",
				},
				{
					Name:        "get_crop_productivity",
					Description: "Get per-crop totals: area, yield, revenue and yield per hectare.",
				},
				{
					Name:        "get_irrigation_efficiency",
					Description: "Get per-system-type irrigation counts, average efficiency rating and average water usage.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// One round of tool calls is enough for these read-only lookups.
	for _, part := range resp.Candidates[0].Content.Parts {
		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			continue
		}

		payload, err := runTool(funcCall.Name)
		if err != nil {
			return "", err
		}

		finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
			Name:     funcCall.Name,
			Response: map[string]interface{}{"data": payload},
		})
		if err != nil {
			return "", err
		}
		return printResponse(finalResp), nil
	}

	return printResponse(resp), nil
}

func runTool(name string) (string, error) {
	switch name {
	case "get_land_overview":
		overview, err := database.GlobalOverview()
		if err != nil {
			return "", err
		}
		utilization, err := database.LandUtilization(database.StatsFilter{})
		if err != nil {
			return "", err
		}
		return marshal(map[string]interface{}{
			"overview":    overview,
			"utilization": utilization,
		})
	case "get_crop_productivity":
		rows, err := database.CropProductivity(database.StatsFilter{})
		if err != nil {
			return "", err
		}
		return marshal(rows)
	case "get_irrigation_efficiency":
		rows, err := database.IrrigationDistribution(database.StatsFilter{})
		if err != nil {
			return "", err
		}
		return marshal(rows)
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func marshal(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I could not produce an answer for that question."
}
