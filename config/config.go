package config

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

type Config struct {
	App     App           `yaml:"app"`
	DB      *sql.DB       `yaml:"db"`
	Queue   *RabbitMQ     `yaml:"rabbitmq"`
	Archive Archive       `yaml:"archive"`
	Storage *minio.Client `yaml:"storage"`
	Server  Server        `yaml:"server"`
	Media   Media         `yaml:"media"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Media locates the shared directories and engine binaries. UploadDir holds
// source files, OutputDir receives generated outputs; the worker only ever
// writes filenames it generated itself.
type Media struct {
	UploadDir  string `yaml:"upload_dir"`
	OutputDir  string `yaml:"output_dir"`
	FFmpegBin  string `yaml:"ffmpeg_bin"`
	FFprobeBin string `yaml:"ffprobe_bin"`
}

// Archive configures the best-effort MinIO mirror of completed outputs.
type Archive struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
	if err != nil {
		return nil, err
	}

	rabbitmq := &RabbitMQ{
		Host: viper.GetString("rabbitmq_host"),
		Port: viper.GetInt("rabbitmq_port"),
		User: viper.GetString("rabbitmq_user"),
		Pass: viper.GetString("rabbitmq_pass"),
		Kind: viper.GetString("rabbitmq_kind"),
	}

	var storage *minio.Client
	if viper.GetBool("archive.enabled") {
		storage, err = minio.New(viper.GetString("minio.url"), &minio.Options{
			Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
			Secure: false,
		})
		if err != nil {
			return nil, err
		}
	}

	ffmpegBin := viper.GetString("media.ffmpeg_bin")
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	ffprobeBin := viper.GetString("media.ffprobe_bin")
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}

	return &Config{
		App: App{
			Environment: viper.GetString("app.environment"),
			Host:        viper.GetString("app.host"),
			Protocol:    viper.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
			Workers:  viper.GetInt("server.workers"),
		},
		Media: Media{
			UploadDir:  viper.GetString("media.upload_dir"),
			OutputDir:  viper.GetString("media.output_dir"),
			FFmpegBin:  ffmpegBin,
			FFprobeBin: ffprobeBin,
		},
		Archive: Archive{
			Enabled: viper.GetBool("archive.enabled"),
			Bucket:  viper.GetString("archive.bucket"),
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: storage,
	}, nil
}
