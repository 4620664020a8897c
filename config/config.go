package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtExpire int    `yaml:"jwt_expire" json:"jwt_expire"` // hours
}

// DBConfig database configuration
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// SmtpConfig outbound mail configuration
type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

// MomoConfig payment gateway configuration.
// AccessKey identifies the merchant in signed payloads, SecretKey is the
// HMAC signing secret shared with the gateway.
type MomoConfig struct {
	Endpoint    string `yaml:"endpoint" json:"endpoint"`
	PartnerCode string `yaml:"partner_code" json:"partner_code"`
	AccessKey   string `yaml:"access_key" json:"access_key"`
	SecretKey   string `yaml:"secret_key" json:"-"`
	ReturnURL   string `yaml:"return_url" json:"return_url"`
	NotifyURL   string `yaml:"notify_url" json:"notify_url"`
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
	Momo     MomoConfig `yaml:"momo" json:"momo"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "VietShop",
		Location: "Asia/Ho_Chi_Minh",
		Workdir:  "/var/vietshop",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
		JwtExpire: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "vietshop",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Smtp: SmtpConfig{
		Host: "smtp.example.com",
		Port: 465,
		From: "no-reply@vietshop.vn",
	},
	Momo: MomoConfig{
		Endpoint:    "https://test-payment.momo.vn/gw_payment/transactionProcessor",
		PartnerCode: "MOMOVSHOP",
		ReturnURL:   "https://shop.example.vn/payment/return",
		NotifyURL:   "https://shop.example.vn/api/v1/payment/momo/callback",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/vietshop/vietshop.log",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v == "true" || v == "1" || v == "on"
	}
}

// LoadConfig loads the yaml configuration file, falling back to defaults
// when the file does not exist. Secrets may be overridden via environment.
func LoadConfig(cfile string) *AppConfig {
	if cfile == "" {
		cfile = "vietshop.yml"
	}
	cfg := DefaultAppConfig
	if _, err := os.Stat(cfile); err == nil {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		cfg = new(AppConfig)
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(fmt.Errorf("parse config %s: %w", cfile, err))
		}
	}

	setEnvValue("VIETSHOP_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("VIETSHOP_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("VIETSHOP_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("VIETSHOP_DB_HOST", &cfg.Database.Host)
	setEnvValue("VIETSHOP_DB_NAME", &cfg.Database.Name)
	setEnvValue("VIETSHOP_DB_USER", &cfg.Database.User)
	setEnvValue("VIETSHOP_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("VIETSHOP_SMTP_PWD", &cfg.Smtp.Password)
	setEnvValue("VIETSHOP_MOMO_ACCESS_KEY", &cfg.Momo.AccessKey)
	setEnvValue("VIETSHOP_MOMO_SECRET_KEY", &cfg.Momo.SecretKey)

	return cfg
}
