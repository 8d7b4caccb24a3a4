package httputil

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the identity of the caller as asserted by the
// authenticating gateway in front of the service.
const ActorHeader = "X-Actor"

// AnonymousActor is recorded when a request carries no actor header.
const AnonymousActor = "anonymous"

// Actor returns the caller identity recorded in audit events.
func Actor(c *gin.Context) string {
	actor := strings.TrimSpace(c.GetHeader(ActorHeader))
	if actor == "" {
		return AnonymousActor
	}
	if len(actor) > 255 {
		actor = actor[:255]
	}
	return actor
}
