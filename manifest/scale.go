package manifest

import (
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Scale is the body PUT to a /scale subresource.
type Scale struct {
	metav1.TypeMeta `json:",inline"`
	Metadata        ObjectMeta `json:"metadata"`
	Spec            ScaleSpec  `json:"spec"`
}

type ScaleSpec struct {
	Replicas int32 `json:"replicas"`
}

func NewScale(namespace, name string, replicas int32) *Scale {
	return &Scale{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Scale",
			APIVersion: autoscalingv1.SchemeGroupVersion.String(),
		},
		Metadata: ObjectMeta{Name: name, Namespace: namespace},
		Spec:     ScaleSpec{Replicas: replicas},
	}
}
