package config

type StorageConfig struct {
	Region      string `yaml:"region"`
	Bucket      string `yaml:"bucket"`
	CDNDomain   string `yaml:"cdn_domain"`
	AvatarACL   string `yaml:"avatar_acl"`
	MaxFileSize int64  `yaml:"max_file_size"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Region:      getEnv("AWS_REGION", "us-east-1"),
		Bucket:      getEnv("S3_BUCKET", "gotransit-media"),
		CDNDomain:   getEnv("CDN_DOMAIN", ""),
		AvatarACL:   getEnv("S3_AVATAR_ACL", "public-read"),
		MaxFileSize: int64(getEnvAsInt("MAX_FILE_SIZE", 5*1024*1024)),
	}
}
