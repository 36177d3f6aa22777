package model

import "fmt"

// Environment is a deployment target. It decides the key namespace and the
// blast radius of a mutation.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// ParseEnvironment validates a user-supplied environment name.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvDev, EnvProd:
		return Environment(s), nil
	default:
		return "", fmt.Errorf("unknown environment %q (want dev or prod)", s)
	}
}
