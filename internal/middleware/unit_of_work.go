package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// UnitOfWorkStarter opens a request-scoped unit of work on a context.
type UnitOfWorkStarter interface {
	Start(ctx context.Context) (context.Context, func(context.Context))
}

// UnitOfWorkMiddleware attaches a unit of work to every request and ends it after the handler.
// Writes the handler did not commit are rolled back.
func UnitOfWorkMiddleware(uow UnitOfWorkStarter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, end := uow.Start(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		defer end(context.WithoutCancel(ctx))

		c.Next()
	}
}
