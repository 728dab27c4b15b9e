package v1

import (
	"errors"
	"net/http"

	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"

	"github.com/labstack/echo/v5"
)

// APIError maps an operation error to an HTTP response.
func APIError(c *echo.Context, err error) error {
	var ae *k8s.APIError
	switch {
	case errors.As(err, &ae):
		return c.JSON(ae.StatusCode, ErrorResponse{Error: ae.Message, Code: "API_ERROR"})
	case k8s.IsTransport(err):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: "TRANSPORT_ERROR"})
	case errors.Is(err, manifest.ErrRegistryIncomplete):
		return c.JSON(http.StatusPreconditionFailed, ErrorResponse{Error: err.Error(), Code: "REGISTRY_INCOMPLETE"})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "INTERNAL_ERROR"})
}

// Passthrough relays a control plane response as is.
func Passthrough(c *echo.Context, resp *k8s.Response) error {
	if len(resp.Body) == 0 {
		return c.NoContent(resp.StatusCode)
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return c.Blob(resp.StatusCode, contentType, resp.Body)
}

func badRequest(c *echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "BAD_REQUEST"})
}
