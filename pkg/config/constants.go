package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "MERCHANTRY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MERCHANTRY_DB_DSN"
	EnvDBHost = "MERCHANTRY_DB_HOST"
	EnvDBUser = "MERCHANTRY_DB_USER"
	EnvDBName = "MERCHANTRY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
