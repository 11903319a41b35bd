package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"servly/pkg/contracts"
	httputil "servly/pkg/http"
	"servly/pkg/logger"
)

const readyTimeout = 2 * time.Second

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type HealthHandler struct {
	checkers []contracts.Checker
	log      *logger.Logger
}

func NewHealthHandler(log *logger.Logger, checkers ...contracts.Checker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		log:      log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

// Ready pings every dependency; one failure makes the instance unready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := http.StatusOK
	resp := HealthResponse{Status: "ready", Dependencies: make(map[string]string, len(h.checkers))}

	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			h.log.Error("Dependency health check failed", "dependency", c.Name(), "error", err)
			resp.Dependencies[c.Name()] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[c.Name()] = "ok"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

type mongoChecker struct {
	client *mongo.Client
}

func MongoChecker(client *mongo.Client) contracts.Checker {
	return mongoChecker{client: client}
}

func (mongoChecker) Name() string { return "mongo" }

func (c mongoChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

type redisChecker struct {
	client *redis.Client
}

func RedisChecker(client *redis.Client) contracts.Checker {
	return redisChecker{client: client}
}

func (redisChecker) Name() string { return "redis" }

func (c redisChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
