package config

import "time"

const AppName = "kubeutils"

// RegistryConfig holds the image registry credentials. The pull secret
// reference is only injected into manifests when all four are set.
type RegistryConfig struct {
	User           string `env:"DOCKER_USER"`
	Password       string `env:"DOCKER_PASSWORD"`
	Server         string `env:"DOCKER_REGISTRY_SERVER"`
	Email          string `env:"DOCKER_EMAIL"`
	PullSecretName string `env:"DOCKER_PULL_SECRET_NAME" envDefault:"regsecret"`
}

func (r RegistryConfig) Complete() bool {
	return r.User != "" && r.Password != "" && r.Server != "" && r.Email != ""
}

type ClientConfig struct {
	APIServer  string        `env:"KUBE_API_SERVER"`
	Token      string        `env:"KUBE_TOKEN"`
	CAFile     string        `env:"KUBE_CA_FILE"`
	Insecure   bool          `env:"KUBE_INSECURE_SKIP_TLS_VERIFY" envDefault:"false"`
	Kubeconfig string        `env:"KUBECONFIG"`
	PatchType  string        `env:"KUBE_PATCH_TYPE" envDefault:"strategic"`
	Timeout    time.Duration `env:"KUBE_TIMEOUT" envDefault:"30s"`
	Registry   RegistryConfig
}

type ServerConfig struct {
	ListenAddr string `env:"KUBEUTILS_LISTEN_ADDR" envDefault:":8080"`
	Tokens     string `env:"KUBEUTILS_API_TOKENS,required,notEmpty"`
	TLSCert    string `env:"KUBEUTILS_TLS_CERT"`
	TLSKey     string `env:"KUBEUTILS_TLS_KEY"`
	Client     ClientConfig
}
