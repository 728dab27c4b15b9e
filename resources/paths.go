package resources

import "net/url"

const (
	appsV1 = "/apis/apps/v1"
	coreV1 = "/api/v1"
)

func namespaced(group, namespace, resource string) string {
	return group + "/namespaces/" + url.PathEscape(namespace) + "/" + resource
}

func deploymentsPath(namespace string) string {
	return namespaced(appsV1, namespace, "deployments")
}

func deploymentPath(namespace, name string) string {
	return deploymentsPath(namespace) + "/" + url.PathEscape(name)
}

func namespacesPath() string {
	return coreV1 + "/namespaces"
}

func namespacePath(name string) string {
	return namespacesPath() + "/" + url.PathEscape(name)
}

func servicesPath(namespace string) string {
	return namespaced(coreV1, namespace, "services")
}

func servicePath(namespace, name string) string {
	return servicesPath(namespace) + "/" + url.PathEscape(name)
}

func secretsPath(namespace string) string {
	return namespaced(coreV1, namespace, "secrets")
}

func secretPath(namespace, name string) string {
	return secretsPath(namespace) + "/" + url.PathEscape(name)
}
