package contracts

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Checker reports whether a dependency is usable. Readiness checks call
// every registered checker.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// PublicHandler is implemented by handlers with routes that may be called
// without a bearer token.
type PublicHandler interface {
	Handler
	IsPublic(r *http.Request) bool
}
