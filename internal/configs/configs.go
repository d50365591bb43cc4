package configs

import (
	"reflect"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Configs 是进程级静态配置，全部来自环境变量（可由 .env 预先加载）。
// 环境变量名即 mapstructure key 的大写形式，例如 app_port -> APP_PORT。
type Configs struct {
	// App configuration
	AppName     string `mapstructure:"app_name"`
	AppEnv      string `mapstructure:"app_env"`
	AppLogLevel string `mapstructure:"app_log_level"`
	AppPort     int    `mapstructure:"app_port"`

	// Listing store
	DatabaseURL            string        `mapstructure:"database_url"`
	ListingQueryTimeout    time.Duration `mapstructure:"listing_query_timeout"`
	ListingBreakerFailures uint32        `mapstructure:"listing_breaker_failures"`
	ListingBreakerTimeout  time.Duration `mapstructure:"listing_breaker_timeout"`

	// Artifacts
	ModelPath           string        `mapstructure:"model_path"`
	EncodersPath        string        `mapstructure:"encoders_path"`
	ScalerPath          string        `mapstructure:"scaler_path"`
	ArtifactLoadTimeout time.Duration `mapstructure:"artifact_load_timeout"`

	// Redis（redis:// 制品来源与相似度黑名单）
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`

	// Similarity
	SimilarTopN           int    `mapstructure:"similar_top_n"`
	SimilarScalerScope    string `mapstructure:"similar_scaler_scope"`
	SimilarPipelineConfig string `mapstructure:"similar_pipeline_config"`
	SimilarBlacklistKey   string `mapstructure:"similar_blacklist_key"`
}

var defaults = map[string]any{
	"app_name":                 "huniya-ml",
	"app_env":                  "development",
	"app_log_level":            "INFO",
	"app_port":                 5000,
	"listing_query_timeout":    5 * time.Second,
	"listing_breaker_failures": 5,
	"listing_breaker_timeout":  30 * time.Second,
	"model_path":               "artifacts/model.json",
	"encoders_path":            "artifacts/encoders.json",
	"scaler_path":              "artifacts/scaler.json",
	"artifact_load_timeout":    30 * time.Second,
	"redis_db":                 0,
	"similar_top_n":            5,
	"similar_scaler_scope":     "pool",
}

// Load 读取配置：先加载 envFiles（缺失时忽略，默认 .env），再从环境变量覆盖默认值。
func Load(envFiles ...string) (*Configs, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	// AutomaticEnv 只对已知 key 生效，没有默认值的 key 需要显式绑定
	for _, key := range keys() {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Configs
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func keys() []string {
	t := reflect.TypeOf(Configs{})
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
