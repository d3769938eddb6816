package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// client is the singleton admin API client (one per stdio process).
var client *Client

// SetAdminURL points the tools at a running server's admin API.
func SetAdminURL(baseURL string) {
	client = NewClient(baseURL)
}

// RegisterTools adds all match administration tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(getMatchStateTool(), handleGetMatchState)
	s.AddTool(getCatalogTool(), handleGetCatalog)
	s.AddTool(getRulesTool(), handleGetRules)
	s.AddTool(disableCardTool(), handleDisableCard)
	s.AddTool(enableCardTool(), handleEnableCard)
	s.AddTool(setCostModifierTool(), handleSetCostModifier)
	s.AddTool(resetRulesTool(), handleResetRules)
	s.AddTool(startRoundTool(), handleStartRound)
	s.AddTool(endRoundTool(), handleEndRound)
	s.AddTool(resetMatchTool(), handleResetMatch)
}

// --- Tool definitions ---

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the current match state: round number, timer, per-team gold, rosters, and active rules. Read-only."),
	)
}

func getCatalogTool() mcp.Tool {
	return mcp.NewTool("get_catalog",
		mcp.WithDescription("List every card in the catalog with its id, cost, target, and effect type. Read-only."),
	)
}

func getRulesTool() mcp.Tool {
	return mcp.NewTool("get_rules",
		mcp.WithDescription("Get the active match rules: disabled cards and per-card gold cost multipliers. Read-only."),
	)
}

func disableCardTool() mcp.Tool {
	return mcp.NewTool("disable_card",
		mcp.WithDescription("Disable a card so neither team can cast it until it is re-enabled."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Catalog id of the card to disable (e.g. 'time-freeze')")),
	)
}

func enableCardTool() mcp.Tool {
	return mcp.NewTool("enable_card",
		mcp.WithDescription("Re-enable a previously disabled card."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Catalog id of the card to enable")),
	)
}

func setCostModifierTool() mcp.Tool {
	return mcp.NewTool("set_cost_modifier",
		mcp.WithDescription("Set a gold cost multiplier for a standard card. Values are clamped to 0.5-2.0; 1.0 leaves the cost unchanged."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Catalog id of the card")),
		mcp.WithNumber("multiplier", mcp.Required(), mcp.Description("Cost multiplier between 0.5 and 2.0")),
	)
}

func resetRulesTool() mcp.Tool {
	return mcp.NewTool("reset_rules",
		mcp.WithDescription("Clear all disabled cards and cost multipliers, restoring default rules."),
	)
}

func startRoundTool() mcp.Tool {
	return mcp.NewTool("start_round",
		mcp.WithDescription("Start the next round: resets the countdown and per-round card usage."),
	)
}

func endRoundTool() mcp.Tool {
	return mcp.NewTool("end_round",
		mcp.WithDescription("End the current round immediately: interest pays out and active effects clear."),
	)
}

func resetMatchTool() mcp.Tool {
	return mcp.NewTool("reset_match",
		mcp.WithDescription("Reset the whole match: rules, gold, effects, and round counter return to their initial state."),
	)
}

// --- Tool handlers ---

func handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	body, err := client.get(ctx, "/api/state")
	if err != nil {
		return mcp.NewToolResultErrorf("get_match_state failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleGetCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	body, err := client.get(ctx, "/api/catalog")
	if err != nil {
		return mcp.NewToolResultErrorf("get_catalog failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleGetRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	body, err := client.get(ctx, "/api/rules")
	if err != nil {
		return mcp.NewToolResultErrorf("get_rules failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleDisableCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required."), nil
	}
	body, err := client.post(ctx, "/api/rules/disable", map[string]string{"cardId": cardID})
	if err != nil {
		return mcp.NewToolResultErrorf("disable_card failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleEnableCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required."), nil
	}
	body, err := client.post(ctx, "/api/rules/enable", map[string]string{"cardId": cardID})
	if err != nil {
		return mcp.NewToolResultErrorf("enable_card failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleSetCostModifier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required."), nil
	}
	multiplier := request.GetFloat("multiplier", 0)
	if multiplier <= 0 {
		return mcp.NewToolResultError("multiplier must be positive."), nil
	}
	body, err := client.post(ctx, "/api/rules/cost-modifier", map[string]any{
		"cardId":     cardID,
		"multiplier": multiplier,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("set_cost_modifier failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleResetRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	body, err := client.post(ctx, "/api/rules/reset", struct{}{})
	if err != nil {
		return mcp.NewToolResultErrorf("reset_rules failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleStartRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	body, err := client.post(ctx, "/api/round/start", struct{}{})
	if err != nil {
		return mcp.NewToolResultErrorf("start_round failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleEndRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	body, err := client.post(ctx, "/api/round/end", struct{}{})
	if err != nil {
		return mcp.NewToolResultErrorf("end_round failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}

func handleResetMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if client == nil {
		return mcp.NewToolResultError("No admin API configured."), nil
	}
	body, err := client.post(ctx, "/api/match/reset", struct{}{})
	if err != nil {
		return mcp.NewToolResultErrorf("reset_match failed: %v", err), nil
	}
	return mcp.NewToolResultText(body), nil
}
