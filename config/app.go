package config

type App struct {
	Port         string  `env:"APP_PORT" default:"8080"`
	DatabaseURL  string  `env:"DATABASE_URL,required"`
	JWTSecret    string  `env:"JWT_SECRET" default:"local_dev_secret"`
	Env          string  `env:"APP_ENV" default:"dev"`
	WelcomeBonus float64 `env:"WELCOME_BONUS" default:"500"`
	MaxRecharge  float64 `env:"MAX_RECHARGE" default:"10000"`
}
