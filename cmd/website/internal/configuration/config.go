package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AwsEndpointUrl     string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion          string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId     string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket          string `flag:"awsbucket" env:"AWS_BUCKET" default:"" description:"S3 bucket for media backup. Empty disables backup"`
	BackupFolder       string `flag:"backupfolder" env:"BACKUP_FOLDER" default:"media-backup" description:"S3 folder for media backups"`
	CookieSecret       string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DSN                string `flag:"dsn" env:"DSN" default:"file:./data/sundayalbum.db" description:"Data source name"`
	EditPassword       string `flag:"editpassword" env:"EDIT_PASSWORD" default:"Bluesky" description:"Password for edit access"`
	Host               string `flag:"host" env:"HOST" default:"localhost:8080" description:"The address and port to bind the HTTP server to"`
	LogLevel           string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxThumbWorkers    int    `flag:"mtw" env:"MAX_THUMB_WORKERS" default:"10" description:"Maximum number of concurrent thumbnail workers"`
	MaxUploadWorkers   int    `flag:"muw" env:"MAX_UPLOAD_WORKERS" default:"10" description:"Maximum number of concurrent upload persistence workers"`
	MirrorPath         string `flag:"mirrorpath" env:"MIRROR_PATH" default:"./data/settings.json" description:"Path to the synchronous settings mirror file"`
	ViewPassword       string `flag:"viewpassword" env:"VIEW_PASSWORD" default:"Cherry" description:"Password for viewing the site"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
