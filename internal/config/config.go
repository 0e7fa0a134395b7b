package config

import "time"

type Config struct {
	App            App            `yaml:"app"`
	Http           Http           `yaml:"http"`
	Log            Log            `yaml:"log"`
	Infrastructure Infrastructure `yaml:"infrastructure"`
	Clients        Clients        `yaml:"clients"`
	Upload         Upload         `yaml:"upload"`
	Recognition    Recognition    `yaml:"recognition"`
	Editor         Editor         `yaml:"editor"`
	Session        Session        `yaml:"session"`
	Workbook       Workbook       `yaml:"workbook"`
}

type App struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"trade-disclosure"`
	Env  string `yaml:"env" env:"APP_ENV" env-default:"local"`
	// PublicURL prefixes the excelUrl handed back by the upload endpoint.
	PublicURL string `yaml:"public_url" env:"APP_PUBLIC_URL" env-default:"http://localhost:8000"`
}

type Http struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	BodyLimit    int           `yaml:"body_limit" env:"HTTP_BODY_LIMIT" env-default:"16777216"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	Swagger      bool          `yaml:"swagger" env:"HTTP_SWAGGER" env-default:"true"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type Infrastructure struct {
	Db         Db         `yaml:"db"`
	Redis      Redis      `yaml:"redis"`
	Amqp       Amqp       `yaml:"amqp"`
	Storage    Storage    `yaml:"storage"`
	OpenSearch OpenSearch `yaml:"opensearch"`
}

type Db struct {
	// Driver is one of postgres, mysql, sqlite.
	Driver       string        `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	Dsn          string        `yaml:"dsn" env:"DB_DSN" env-default:"file:trade-disclosure.db?_foreign_keys=on"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLife  time.Duration `yaml:"conn_max_life" env:"DB_CONN_MAX_LIFE" env-default:"30m"`
	Migrate      bool          `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

type Redis struct {
	Addr      string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Namespace string `yaml:"namespace" env:"REDIS_NAMESPACE" env-default:"trade-disclosure"`
}

type Amqp struct {
	// Empty Url disables event publishing.
	Url      string `yaml:"url" env:"AMQP_URL"`
	Exchange string `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"trade-disclosure"`
}

type Storage struct {
	// Driver is local or minio.
	Driver    string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"local"`
	LocalDir  string `yaml:"local_dir" env:"STORAGE_LOCAL_DIR" env-default:"./uploads"`
	Endpoint  string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"trade-disclosure"`
	UseSSL    bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"false"`
}

type OpenSearch struct {
	// Empty Addresses disables the search index.
	Addresses          []string `yaml:"addresses" env:"OPENSEARCH_ADDRESSES" env-separator:","`
	Username           string   `yaml:"username" env:"OPENSEARCH_USERNAME"`
	Password           string   `yaml:"password" env:"OPENSEARCH_PASSWORD"`
	Index              string   `yaml:"index" env:"OPENSEARCH_INDEX" env-default:"investment-portfolios"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify" env:"OPENSEARCH_INSECURE" env-default:"false"`
}

type Clients struct {
	OpenAI         OpenAI         `yaml:"openai"`
	PortfolioStore PortfolioStore `yaml:"portfolio_store"`
	Recognition    RecognitionAPI `yaml:"recognition"`
}

type OpenAI struct {
	ApiKey string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model  string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

type PortfolioStore struct {
	// Mode is local (in-process service) or remote (HTTP persistence boundary).
	Mode    string        `yaml:"mode" env:"PORTFOLIO_STORE_MODE" env-default:"local"`
	Url     string        `yaml:"url" env:"PORTFOLIO_STORE_URL" env-default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" env:"PORTFOLIO_STORE_TIMEOUT" env-default:"30s"`
}

type RecognitionAPI struct {
	Url     string        `yaml:"url" env:"RECOGNITION_URL" env-default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" env:"RECOGNITION_TIMEOUT" env-default:"30s"`
	// AllowedHosts extends the hosts spreadsheets may be fetched from. The
	// recognition url host and the public url host are always allowed.
	AllowedHosts []string `yaml:"allowed_hosts" env:"RECOGNITION_ALLOWED_HOSTS" env-separator:","`
	// Demo returns a labeled canned example instead of calling the service.
	Demo        bool   `yaml:"demo" env:"RECOGNITION_DEMO" env-default:"false"`
	DemoExample string `yaml:"demo_example" env:"RECOGNITION_DEMO_EXAMPLE" env-default:"/api/v1/excel/templates/员工配偶信息报备模板/download"`
}

type Upload struct {
	MaxBytes int64 `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"10485760"`
}

type Recognition struct {
	// Engine is openai or mock. mock produces clearly labeled sample rows.
	Engine string `yaml:"engine" env:"RECOGNITION_ENGINE" env-default:"mock"`
}

type Editor struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" env:"EDITOR_IDLE_TTL" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"EDITOR_SWEEP_INTERVAL" env-default:"5m"`
}

type Session struct {
	TTL time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
}

type Workbook struct {
	FillMerged bool `yaml:"fill_merged" env:"WORKBOOK_FILL_MERGED" env-default:"false"`
}
