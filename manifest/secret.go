package manifest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var ErrRegistryIncomplete = errors.New("registry credentials incomplete: user, password, server and email are required")

type RegistryCredentials struct {
	Server   string
	User     string
	Password string
	Email    string
}

func (c RegistryCredentials) complete() bool {
	return c.Server != "" && c.User != "" && c.Password != "" && c.Email != ""
}

type dockerConfigJSON struct {
	Auths map[string]dockerAuth `json:"auths"`
}

type dockerAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Auth     string `json:"auth"`
}

// NewPullSecret builds the kubernetes.io/dockerconfigjson Secret that the
// imagePullSecrets reference of every manifest points at.
func NewPullSecret(namespace, name string, creds RegistryCredentials) (*corev1.Secret, error) {
	if !creds.complete() {
		return nil, ErrRegistryIncomplete
	}

	cfg := dockerConfigJSON{Auths: map[string]dockerAuth{
		creds.Server: {
			Username: creds.User,
			Password: creds.Password,
			Email:    creds.Email,
			Auth:     base64.StdEncoding.EncodeToString([]byte(creds.User + ":" + creds.Password)),
		},
	}}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal docker config: %w", err)
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type: corev1.SecretTypeDockerConfigJson,
		Data: map[string][]byte{corev1.DockerConfigJsonKey: data},
	}, nil
}
