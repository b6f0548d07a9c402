package s3

// Config holds the bucket location and credentials. Without static
// credentials the default AWS chain (env, shared config, IAM role) is used.
type Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint       string `env:"S3_ENDPOINT"` // MinIO, R2, Spaces and other S3-compatible services
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}
