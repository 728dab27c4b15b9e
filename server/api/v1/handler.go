package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kubeutils/kubeutils/manifest"
	"github.com/kubeutils/kubeutils/resources"

	"github.com/labstack/echo/v5"
)

// MaxBodyBytes bounds any request body accepted under /v1.
const MaxBodyBytes = 1 << 20

type Handler struct {
	Client *resources.Client
}

// --- Deployments ---

func (h *Handler) ListDeployments(c *echo.Context) error {
	entries, err := h.Client.Deployments.ListAll(c.Request().Context())
	if err != nil {
		return APIError(c, err)
	}
	return c.JSON(http.StatusOK, DeploymentListResponse{Deployments: entries, Total: len(entries)})
}

func (h *Handler) ListNamespaceDeployments(c *echo.Context) error {
	entries, err := h.Client.Deployments.ListForNamespace(c.Request().Context(), c.Param("namespace"))
	if err != nil {
		return APIError(c, err)
	}
	return c.JSON(http.StatusOK, DeploymentListResponse{Deployments: entries, Total: len(entries)})
}

func (h *Handler) GetDeployment(c *echo.Context) error {
	resp, err := h.Client.Deployments.Get(c.Request().Context(), c.Param("namespace"), c.Param("name"))
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

// bindWorkload decodes the body strictly; the path decides namespace and name.
func bindWorkload(c *echo.Context) (manifest.WorkloadSpec, error) {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return manifest.WorkloadSpec{}, fmt.Errorf("read body: %w", err)
	}
	return manifest.DecodeWorkloadSpec(data)
}

func bindError(c *echo.Context, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			Code:  "BODY_TOO_LARGE",
		})
	}
	return badRequest(c, err.Error())
}

func (h *Handler) CreateDeployment(c *echo.Context) error {
	spec, err := bindWorkload(c)
	if err != nil {
		return bindError(c, err)
	}
	spec.Namespace = c.Param("namespace")
	if spec.Name == "" || spec.Image == "" {
		return badRequest(c, "name and image are required")
	}

	resp, err := h.Client.Deployments.Create(c.Request().Context(), spec)
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

func (h *Handler) UpdateDeployment(c *echo.Context) error {
	spec, err := bindWorkload(c)
	if err != nil {
		return bindError(c, err)
	}
	spec.Namespace = c.Param("namespace")
	spec.Name = c.Param("name")
	if spec.Image == "" {
		return badRequest(c, "image is required")
	}

	resp, err := h.Client.Deployments.Update(c.Request().Context(), spec)
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

func (h *Handler) ScaleDeployment(c *echo.Context) error {
	var req ScaleRequest
	if err := c.Bind(&req); err != nil || req.Replicas == nil || *req.Replicas < 0 {
		return badRequest(c, "replicas must be a non-negative integer")
	}

	resp, err := h.Client.Deployments.Scale(c.Request().Context(), c.Param("namespace"), c.Param("name"), *req.Replicas)
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

func (h *Handler) DeleteDeployment(c *echo.Context) error {
	resp, err := h.Client.Deployments.Delete(c.Request().Context(), c.Param("namespace"), c.Param("name"))
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

// --- Namespaces ---

func (h *Handler) ListNamespaces(c *echo.Context) error {
	entries, err := h.Client.Namespaces.List(c.Request().Context())
	if err != nil {
		return APIError(c, err)
	}
	return c.JSON(http.StatusOK, NamespaceListResponse{Namespaces: entries, Total: len(entries)})
}

func (h *Handler) CreateNamespace(c *echo.Context) error {
	var req NamespaceCreateRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return badRequest(c, "name is required")
	}

	resp, err := h.Client.Namespaces.Create(c.Request().Context(), req.Name)
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

func (h *Handler) DeleteNamespace(c *echo.Context) error {
	resp, err := h.Client.Namespaces.Delete(c.Request().Context(), c.Param("namespace"))
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

func (h *Handler) CreatePullSecret(c *echo.Context) error {
	resp, err := h.Client.PullSecrets.Create(c.Request().Context(), c.Param("namespace"))
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}

// --- Cluster ---

func (h *Handler) Check(c *echo.Context) error {
	resp, err := h.Client.Check(c.Request().Context())
	if err != nil {
		return APIError(c, err)
	}
	return Passthrough(c, resp)
}
