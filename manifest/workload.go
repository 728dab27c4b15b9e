package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

// WorkloadSpec is the caller's intent for one Deployment.
//
// Env, VolumeMounts and EnvFrom distinguish nil from empty: nil leaves the
// field out of the manifest, an empty value is sent as an empty list.
type WorkloadSpec struct {
	Namespace     string                 `json:"namespace"`
	Name          string                 `json:"name"`
	Image         string                 `json:"image"`
	ContainerPort int32                  `json:"containerPort"`
	Env           []corev1.EnvVar        `json:"env,omitzero"`
	Options       Options                `json:"options,omitzero"`
	VolumeMounts  map[string]VolumeMount `json:"volumeMounts,omitzero"`
	EnvFrom       []EnvFromRef           `json:"envFrom,omitzero"`
}

type Options struct {
	LivenessProbe  *corev1.Probe `json:"livenessProbe,omitempty"`
	ReadinessProbe *corev1.Probe `json:"readinessProbe,omitempty"`
	StartupProbe   *corev1.Probe `json:"startupProbe,omitempty"`
	// Release is accepted for compatibility and not used in the manifest.
	Release string `json:"release,omitempty"`
}

const EnvFromSecret = "secret"

// EnvFromRef names a source of environment variables. Only secrets are
// emitted; other types are dropped silently.
type EnvFromRef struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type MountType string

const (
	MountTypeHostPath MountType = "HOSTPATH"
	MountTypePVC      MountType = "PVC"
)

type VolumeMount struct {
	ContainerPath string
	Source        VolumeSource
}

// VolumeSource is either HostPath or PersistentVolumeClaim.
type VolumeSource interface {
	volumeSource() corev1.VolumeSource
}

type HostPath struct {
	Path string
}

func (h HostPath) volumeSource() corev1.VolumeSource {
	return corev1.VolumeSource{HostPath: &corev1.HostPathVolumeSource{Path: h.Path}}
}

type PersistentVolumeClaim struct {
	ClaimName string
}

func (p PersistentVolumeClaim) volumeSource() corev1.VolumeSource {
	return corev1.VolumeSource{PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: p.ClaimName}}
}

// SourceFor interprets ref by mount type: empty or HOSTPATH is a node path,
// anything else is a claim name.
func SourceFor(mountType MountType, ref string) VolumeSource {
	if mountType == "" || mountType == MountTypeHostPath {
		return HostPath{Path: ref}
	}
	return PersistentVolumeClaim{ClaimName: ref}
}

type volumeMountWire struct {
	ContainerPath string    `json:"containerPath"`
	HostPath      string    `json:"hostPath,omitempty"`
	MountType     MountType `json:"mountType,omitempty"`
}

// UnmarshalJSON reads {containerPath, hostPath, mountType}, where hostPath
// carries either a path or a claim name.
func (m *VolumeMount) UnmarshalJSON(data []byte) error {
	var w volumeMountWire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("volume mount: %w", err)
	}
	m.ContainerPath = w.ContainerPath
	m.Source = SourceFor(w.MountType, w.HostPath)
	return nil
}

func (m VolumeMount) MarshalJSON() ([]byte, error) {
	w := volumeMountWire{ContainerPath: m.ContainerPath}
	switch s := m.Source.(type) {
	case HostPath:
		w.HostPath = s.Path
		w.MountType = MountTypeHostPath
	case PersistentVolumeClaim:
		w.HostPath = s.ClaimName
		w.MountType = MountTypePVC
	}
	return json.Marshal(w)
}

// DecodeWorkloadSpec reads a WorkloadSpec from JSON or YAML. Unknown keys
// are rejected.
func DecodeWorkloadSpec(data []byte) (WorkloadSpec, error) {
	var spec WorkloadSpec
	if err := yaml.UnmarshalStrict(data, &spec); err != nil {
		return WorkloadSpec{}, fmt.Errorf("decode workload spec: %w", err)
	}
	return spec, nil
}
