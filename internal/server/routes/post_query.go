package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/papermind-ai/papermind/internal/server/middleware"
	"github.com/papermind-ai/papermind/pkg/logger"
	"github.com/papermind-ai/papermind/pkg/query"
	storepgx "github.com/papermind-ai/papermind/pkg/store/pgx"
)

// QueryHandler answers a question from the ingested corpus with
// retrieval-augmented generation.
func QueryHandler(c echo.Context) error {
	type queryRequest struct {
		Question string `json:"question" validate:"required"`
		TopK     int    `json:"top_k"`
		Model    string `json:"model"`
	}

	type queryResponse struct {
		Message string        `json:"message"`
		Answer  *query.Answer `json:"answer,omitempty"`
	}

	data := new(queryRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, queryResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	retriever := query.NewVectorRetriever(app.AiClient, storepgx.NewChunkDBStorage(app.DBConn))

	opts := []query.ChainOption{}
	if data.TopK > 0 {
		opts = append(opts, query.WithTopK(data.TopK))
	}
	if data.Model != "" {
		opts = append(opts, query.WithModel(data.Model))
	}

	chain := query.NewChain(retriever, app.AiClient, opts...)
	answer, err := chain.Ask(ctx, data.Question)
	if err != nil {
		logger.Error("[Query] Failed to answer question", "err", err)
		return c.JSON(http.StatusInternalServerError, queryResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, queryResponse{
		Message: "OK",
		Answer:  answer,
	})
}
