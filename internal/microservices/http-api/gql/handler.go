package gql

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"quotehub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// Request is the standard GraphQL-over-HTTP payload.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type Handler struct {
	schema    graphql.Schema
	validator middleware.TokenValidator
	logger    *slog.Logger
}

func NewHandler(schema graphql.Schema, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{schema: schema, validator: validator, logger: logger}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/graphql", h.Serve)
	r.GET("/graphql", h.Serve)
}

// Serve executes one operation. Field errors come back with status 200 in the
// "errors" array; only unusable requests get a 4xx.
func (h *Handler) Serve(c *gin.Context) {
	var req Request
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				requestError(c, http.StatusBadRequest, "variables must be a JSON object")
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		requestError(c, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	if req.Query == "" {
		requestError(c, http.StatusBadRequest, "query is required")
		return
	}
	if c.Request.Method == http.MethodGet && isMutation(req.Query, req.OperationName) {
		c.Header("Allow", http.MethodPost)
		requestError(c, http.StatusMethodNotAllowed, "mutations must be sent with POST")
		return
	}

	ctx := c.Request.Context()
	if header := c.GetHeader("Authorization"); header != "" {
		// a bad token leaves the caller anonymous; protected fields then
		// report "Authentication required."
		if claims, err := middleware.ClaimsFromHeader(ctx, h.validator, header); err == nil {
			ctx = WithUserID(ctx, claims.ID)
			c.Set(middleware.ContextKeyUserID, claims.ID)
		} else {
			h.logger.DebugContext(ctx, "graphql request with unusable token", slog.Any("error", err))
		}
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	c.JSON(http.StatusOK, result)
}

func requestError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"errors": []gin.H{{"message": msg}}})
}

func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		// execution reports the syntax error
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}
