package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	OSS          OSSConfig          `mapstructure:"oss"`
	Email        EmailConfig        `mapstructure:"email"`
	SMS          SMSConfig          `mapstructure:"sms"`
	Queue        QueueConfig        `mapstructure:"queue"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Payment      PaymentConfig      `mapstructure:"payment"`
	Quota        QuotaConfig        `mapstructure:"quota"`
	Rewards      RewardsConfig      `mapstructure:"rewards"`
	OTP          OTPConfig          `mapstructure:"otp"`
	Upload       UploadConfig       `mapstructure:"upload"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql, postgres
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// SMSConfig Twilio 短信配置
type SMSConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
}

type QueueConfig struct {
	NotificationQueue string `mapstructure:"notification_queue"`
	MaxWorkers        int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type SubscriptionConfig struct {
	Plans []PlanConfig `mapstructure:"plans"`
}

// PlanConfig 订阅套餐，DailyQuestions < 0 表示不限
type PlanConfig struct {
	Name           string  `mapstructure:"name"`
	Weight         int     `mapstructure:"weight"`
	DailyQuestions int     `mapstructure:"daily_questions"`
	Price          float64 `mapstructure:"price"`
}

// PaymentConfig 支付窗口，按固定时区偏移计算 [StartHour, EndHour)
type PaymentConfig struct {
	UTCOffsetMinutes int `mapstructure:"utc_offset_minutes"`
	StartHour        int `mapstructure:"start_hour"`
	EndHour          int `mapstructure:"end_hour"`
}

type QuotaConfig struct {
	Timezone      string `mapstructure:"timezone"`
	FriendPostCap int    `mapstructure:"friend_post_cap"` // 好友数超过该值后发帖不限
}

type RewardsConfig struct {
	AnswerPosted     int64 `mapstructure:"answer_posted"`
	UpvoteThreshold  int   `mapstructure:"upvote_threshold"`
	UpvoteBonus      int64 `mapstructure:"upvote_bonus"`
	DownvotePenalty  int64 `mapstructure:"downvote_penalty"`
	TransferUnlockAt int64 `mapstructure:"transfer_unlock_at"`
}

type OTPConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

type UploadConfig struct {
	MaxSize           int64    `mapstructure:"max_size"`           // 最大文件大小（字节）
	AllowedExtensions []string `mapstructure:"allowed_extensions"` // 允许的扩展名
}

func Load(configPath string) (*Config, error) {
	// .env 只用于本地开发，不存在时忽略
	_ = godotenv.Load()

	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("jwt.expire_hours", 72)
	v.SetDefault("queue.notification_queue", "notifications")
	v.SetDefault("queue.max_workers", 2)
	v.SetDefault("subscription.plans", DefaultPlans())
	v.SetDefault("payment.utc_offset_minutes", 330)
	v.SetDefault("payment.start_hour", 10)
	v.SetDefault("payment.end_hour", 11)
	v.SetDefault("quota.timezone", "Local")
	v.SetDefault("quota.friend_post_cap", 10)
	v.SetDefault("rewards.answer_posted", 5)
	v.SetDefault("rewards.upvote_threshold", 5)
	v.SetDefault("rewards.upvote_bonus", 5)
	v.SetDefault("rewards.downvote_penalty", 1)
	v.SetDefault("rewards.transfer_unlock_at", 10)
	v.SetDefault("otp.ttl_minutes", 10)
	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".mp4"})
}

// DefaultPlans 默认套餐：Free < Bronze < Silver < Gold
func DefaultPlans() []PlanConfig {
	return []PlanConfig{
		{Name: "free", Weight: 0, DailyQuestions: 1, Price: 0},
		{Name: "bronze", Weight: 1, DailyQuestions: 5, Price: 100},
		{Name: "silver", Weight: 2, DailyQuestions: 10, Price: 300},
		{Name: "gold", Weight: 3, DailyQuestions: -1, Price: 1000},
	}
}
