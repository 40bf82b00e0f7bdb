// Package config proporciona las estructuras y la función para parsear
// y cargar la configuración del servicio desde un archivo YAML.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config estructura general para almacenar los ajustes del servicio.
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	PublicStorageURL        string `yaml:"public_storage_url"`
	RabbitMQConnection      string `yaml:"rabbitmq_connection"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PayPal                  `yaml:"paypal"`
	SMTP                    `yaml:"smtp"`
	Referral                `yaml:"referral"`
}

// HTTPServer estructura para configurar el servidor HTTP.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection estructura para configurar la conexión a redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken estructura para trabajar con el token jwt.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// PayPal credenciales y URL base de la API REST de PayPal.
type PayPal struct {
	ClientID string `yaml:"client_id"`
	Secret   string `yaml:"secret"`
	APIURL   string `yaml:"api_url" env-default:"https://api-m.sandbox.paypal.com"`
	Currency string `yaml:"currency" env-default:"MXN"`
}

// SMTP ajustes del servidor de correo saliente.
type SMTP struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
}

// Referral ajustes del programa de referidos.
type Referral struct {
	RewardCredits int `yaml:"reward_credits" env-default:"10"`
}

// MustLoad carga la configuración desde la ruta indicada en CONFIG_PATH.
// Termina el proceso si el archivo no existe o no puede parsearse.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"PublicStorageURL: %s\n"+
			"RabbitMQConnection: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Referral:\n"+
			"  RewardCredits: %d\n",
		c.Env,
		c.StorageConnectionString,
		c.PublicStorageURL,
		c.RabbitMQConnection,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.RewardCredits,
	)
}
