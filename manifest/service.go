package manifest

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// ServiceSpec exposes the Deployment of the same name. TargetPort defaults
// to Port.
type ServiceSpec struct {
	Namespace  string             `json:"namespace"`
	Name       string             `json:"name"`
	Port       int32              `json:"port"`
	TargetPort int32              `json:"targetPort,omitempty"`
	Type       corev1.ServiceType `json:"type,omitempty"`
}

func (s ServiceSpec) ports() []corev1.ServicePort {
	target := s.TargetPort
	if target == 0 {
		target = s.Port
	}
	return []corev1.ServicePort{{
		Protocol:   corev1.ProtocolTCP,
		Port:       s.Port,
		TargetPort: intstr.FromInt32(target),
	}}
}

func NewService(s ServiceSpec) *corev1.Service {
	svcType := s.Type
	if svcType == "" {
		svcType = corev1.ServiceTypeClusterIP
	}
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name,
			Namespace: s.Namespace,
		},
		Spec: corev1.ServiceSpec{
			Type:     svcType,
			Selector: map[string]string{AppLabel: s.Name},
			Ports:    s.ports(),
		},
	}
}

// ServicePatch only carries what an update may change.
type ServicePatch struct {
	Spec ServicePatchSpec `json:"spec"`
}

type ServicePatchSpec struct {
	Type     corev1.ServiceType   `json:"type,omitempty"`
	Selector map[string]string    `json:"selector"`
	Ports    []corev1.ServicePort `json:"ports"`
}

func NewServicePatch(s ServiceSpec) *ServicePatch {
	return &ServicePatch{Spec: ServicePatchSpec{
		Type:     s.Type,
		Selector: map[string]string{AppLabel: s.Name},
		Ports:    s.ports(),
	}}
}
