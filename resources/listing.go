package resources

import (
	"fmt"

	"github.com/kubeutils/kubeutils/k8s"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// ListingEntry summarizes one listed object.
//
// For deployments Status is the type of the first status condition, which
// is not necessarily the latest one. For namespaces it is the phase.
type ListingEntry struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Status    string `json:"status"`
}

type ServiceEntry struct {
	Name      string             `json:"name"`
	Namespace string             `json:"namespace"`
	Type      corev1.ServiceType `json:"type"`
	ClusterIP string             `json:"clusterIP,omitempty"`
	Ports     []int32            `json:"ports"`
}

func decodeList[L any](resp *k8s.Response, kind string) (*L, error) {
	var list L
	if err := resp.Decode(&list); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", kind, err)
	}
	return &list, nil
}

func deploymentEntries(resp *k8s.Response) ([]ListingEntry, error) {
	list, err := decodeList[appsv1.DeploymentList](resp, "deployment")
	if err != nil {
		return nil, err
	}
	entries := make([]ListingEntry, 0, len(list.Items))
	for _, d := range list.Items {
		var status string
		if len(d.Status.Conditions) > 0 {
			status = string(d.Status.Conditions[0].Type)
		}
		entries = append(entries, ListingEntry{
			Name:      d.Name,
			Namespace: d.Namespace,
			Status:    status,
		})
	}
	return entries, nil
}

func namespaceEntries(resp *k8s.Response) ([]ListingEntry, error) {
	list, err := decodeList[corev1.NamespaceList](resp, "namespace")
	if err != nil {
		return nil, err
	}
	entries := make([]ListingEntry, 0, len(list.Items))
	for _, ns := range list.Items {
		entries = append(entries, ListingEntry{Name: ns.Name, Status: string(ns.Status.Phase)})
	}
	return entries, nil
}

func serviceEntries(resp *k8s.Response) ([]ServiceEntry, error) {
	list, err := decodeList[corev1.ServiceList](resp, "service")
	if err != nil {
		return nil, err
	}
	entries := make([]ServiceEntry, 0, len(list.Items))
	for _, svc := range list.Items {
		ports := make([]int32, 0, len(svc.Spec.Ports))
		for _, p := range svc.Spec.Ports {
			ports = append(ports, p.Port)
		}
		entries = append(entries, ServiceEntry{
			Name:      svc.Name,
			Namespace: svc.Namespace,
			Type:      svc.Spec.Type,
			ClusterIP: svc.Spec.ClusterIP,
			Ports:     ports,
		})
	}
	return entries, nil
}
