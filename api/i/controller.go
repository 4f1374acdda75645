package i

import "github.com/gin-gonic/gin"

// Controller registers its routes on the public and the token-protected
// groups of the router.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}
