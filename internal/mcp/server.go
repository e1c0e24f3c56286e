package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/liftcalc/internal/training"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(svc *training.Service, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftcalc", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithInstructions("liftcalc 5/3/1 training server. Calculate plate loadings, warm-up ramps, one-rep-max estimates, week schemes, joker sets and training max progression; log lifts and track cycle completion. Weights are in the configured unit (pounds by default)."),
	)

	h := &handlers{svc: svc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolCalculatePlates, Handler: h.calculatePlates},
		server.ServerTool{Tool: toolPlanWarmup, Handler: h.planWarmup},
		server.ServerTool{Tool: toolEstimate1RM, Handler: h.estimate1RM},
		server.ServerTool{Tool: toolWeekScheme, Handler: h.weekScheme},
		server.ServerTool{Tool: toolJokerLadder, Handler: h.jokerLadder},
		server.ServerTool{Tool: toolNextTrainingMax, Handler: h.nextTrainingMax},
		server.ServerTool{Tool: toolPlanDay, Handler: h.planDay},
		server.ServerTool{Tool: toolCycleStatus, Handler: h.cycleStatus},
		server.ServerTool{Tool: toolLogLift, Handler: h.logLift},
		server.ServerTool{Tool: toolSetTrainingMax, Handler: h.setTrainingMax},
		server.ServerTool{Tool: toolAdvanceCycle, Handler: h.advanceCycle},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWeekSchemes, Handler: h.weekSchemes},
		server.ServerResource{Resource: resTrainingMaxes, Handler: h.trainingMaxes},
		server.ServerResource{Resource: resPersonalRecords, Handler: h.personalRecords},
	)

	return s
}

// NewHTTPHandler serves s over streamable HTTP at /mcp. The user ID set on
// the incoming request context by the HTTP identity middleware is carried
// into tool calls.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath("/mcp"),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return WithUserID(ctx, UserIDFromContext(r.Context()))
		}),
	)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	svc *training.Service
	log *slog.Logger
}

// --- Resource definitions ---

var resWeekSchemes = mcp.NewResource(
	"liftcalc://week_schemes",
	"Week Schemes",
	mcp.WithResourceDescription("Main-lift percentages and reps for all four weeks of a 5/3/1 cycle"),
	mcp.WithMIMEType("application/json"),
)

var resTrainingMaxes = mcp.NewResource(
	"liftcalc://training_maxes",
	"Training Maxes",
	mcp.WithResourceDescription("Current training max for each main lift"),
	mcp.WithMIMEType("application/json"),
)

var resPersonalRecords = mcp.NewResource(
	"liftcalc://personal_records",
	"Personal Records",
	mcp.WithResourceDescription("Best AMRAP estimate per cycle and lift"),
	mcp.WithMIMEType("application/json"),
)
