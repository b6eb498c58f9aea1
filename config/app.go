package config

type App struct {
	Port                 string `env:"APP_PORT" envDefault:"8080"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	JWTSecret            string `env:"JWT_SECRET" envDefault:"local_dev_secret"`
	GatewayBaseURL       string `env:"GATEWAY_BASE_URL" envDefault:"https://api.xendit.co"`
	GatewayAPIKey        string `env:"GATEWAY_API_KEY"`
	GatewayCallbackToken string `env:"GATEWAY_CALLBACK_TOKEN"`
	Env                  string `env:"APP_ENV" envDefault:"dev"`
}
