package manifest

import (
	"maps"
	"slices"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

const (
	AppLabel              = "app"
	DefaultReplicas       = 1
	DefaultPullSecretName = "regsecret"
)

// Kind selects the manifest shape. Create produces a full object, Update a
// partial document that leaves replicas and selector to the server's merge.
type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
)

func (k Kind) String() string {
	if k == KindUpdate {
		return "update"
	}
	return "create"
}

type ObjectMeta struct {
	Name      string            `json:"name,omitempty"`
	Namespace string            `json:"namespace,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// Lightweight Deployment document. Unlike appsv1.Deployment it never
// serializes empty selector, status or timestamps, so it is safe to send as
// a patch.
type Deployment struct {
	metav1.TypeMeta `json:",inline"`
	Metadata        *ObjectMeta    `json:"metadata,omitempty"`
	Spec            DeploymentSpec `json:"spec"`
}

type DeploymentSpec struct {
	Replicas *int32                `json:"replicas,omitempty"`
	Selector *metav1.LabelSelector `json:"selector,omitempty"`
	Template PodTemplate           `json:"template"`
}

type PodTemplate struct {
	Metadata *ObjectMeta `json:"metadata,omitempty"`
	Spec     PodSpec     `json:"spec"`
}

type PodSpec struct {
	Containers       []Container                   `json:"containers"`
	Volumes          []corev1.Volume               `json:"volumes,omitzero"`
	ImagePullSecrets []corev1.LocalObjectReference `json:"imagePullSecrets,omitempty"`
}

type Container struct {
	Name           string                 `json:"name"`
	Image          string                 `json:"image"`
	Ports          []corev1.ContainerPort `json:"ports"`
	Env            []corev1.EnvVar        `json:"env,omitzero"`
	LivenessProbe  *corev1.Probe          `json:"livenessProbe,omitempty"`
	ReadinessProbe *corev1.Probe          `json:"readinessProbe,omitempty"`
	StartupProbe   *corev1.Probe          `json:"startupProbe,omitempty"`
	VolumeMounts   []corev1.VolumeMount   `json:"volumeMounts,omitzero"`
	EnvFrom        []corev1.EnvFromSource `json:"envFrom,omitzero"`
}

type PullSecretPolicy struct {
	Enabled    bool
	SecretName string
}

// Name is the secret manifests reference, DefaultPullSecretName when unset.
func (p PullSecretPolicy) Name() string {
	if p.SecretName == "" {
		return DefaultPullSecretName
	}
	return p.SecretName
}

// Builder turns WorkloadSpecs into manifests. It holds no mutable state and
// is safe to share.
type Builder struct {
	PullSecrets PullSecretPolicy
}

func NewBuilder(policy PullSecretPolicy) Builder {
	policy.SecretName = policy.Name()
	return Builder{PullSecrets: policy}
}

// Deployment returns the manifest for kind. The output depends only on spec
// and the builder's pull secret policy.
func (b Builder) Deployment(kind Kind, spec WorkloadSpec) *Deployment {
	container := Container{
		Name:  spec.Name,
		Image: spec.Image,
		Ports: []corev1.ContainerPort{{ContainerPort: spec.ContainerPort}},
		Env:   slices.Clone(spec.Env),
	}
	pod := PodSpec{}

	if b.PullSecrets.Enabled {
		pod.ImagePullSecrets = []corev1.LocalObjectReference{{Name: b.PullSecrets.Name()}}
	}

	container.LivenessProbe = spec.Options.LivenessProbe.DeepCopy()
	container.ReadinessProbe = spec.Options.ReadinessProbe.DeepCopy()
	container.StartupProbe = spec.Options.StartupProbe.DeepCopy()

	if spec.VolumeMounts != nil {
		container.VolumeMounts = []corev1.VolumeMount{}
		pod.Volumes = []corev1.Volume{}
		// sorted so identical input renders identical output
		for _, name := range slices.Sorted(maps.Keys(spec.VolumeMounts)) {
			mount := spec.VolumeMounts[name]
			container.VolumeMounts = append(container.VolumeMounts, corev1.VolumeMount{
				Name:      name,
				MountPath: mount.ContainerPath,
			})
			pod.Volumes = append(pod.Volumes, corev1.Volume{
				Name:         name,
				VolumeSource: volumeSourceFor(mount.Source),
			})
		}
	}

	if spec.EnvFrom != nil {
		container.EnvFrom = []corev1.EnvFromSource{}
		for _, ref := range spec.EnvFrom {
			if ref.Type != EnvFromSecret {
				continue
			}
			container.EnvFrom = append(container.EnvFrom, corev1.EnvFromSource{
				SecretRef: &corev1.SecretEnvSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: ref.Name},
				},
			})
		}
	}

	pod.Containers = []Container{container}
	d := &Deployment{Spec: DeploymentSpec{Template: PodTemplate{Spec: pod}}}

	if kind == KindCreate {
		labels := map[string]string{AppLabel: spec.Name}
		d.TypeMeta = metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       "Deployment",
		}
		d.Metadata = &ObjectMeta{Name: spec.Name, Namespace: spec.Namespace}
		d.Spec.Replicas = ptr.To[int32](DefaultReplicas)
		d.Spec.Selector = &metav1.LabelSelector{MatchLabels: labels}
		d.Spec.Template.Metadata = &ObjectMeta{Labels: maps.Clone(labels)}
	}
	return d
}

func volumeSourceFor(src VolumeSource) corev1.VolumeSource {
	if src == nil {
		return HostPath{}.volumeSource()
	}
	return src.volumeSource()
}
