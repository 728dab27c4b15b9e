package v1

import "github.com/labstack/echo/v5"

// Register mounts the authenticated API on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/deployments", h.ListDeployments)
	g.GET("/namespaces/:namespace/deployments", h.ListNamespaceDeployments)
	g.POST("/namespaces/:namespace/deployments", h.CreateDeployment)
	g.GET("/namespaces/:namespace/deployments/:name", h.GetDeployment)
	g.PATCH("/namespaces/:namespace/deployments/:name", h.UpdateDeployment)
	g.DELETE("/namespaces/:namespace/deployments/:name", h.DeleteDeployment)
	g.PUT("/namespaces/:namespace/deployments/:name/scale", h.ScaleDeployment)

	g.GET("/namespaces", h.ListNamespaces)
	g.POST("/namespaces", h.CreateNamespace)
	g.DELETE("/namespaces/:namespace", h.DeleteNamespace)
	g.POST("/namespaces/:namespace/pullsecret", h.CreatePullSecret)

	g.GET("/check", h.Check)
}
