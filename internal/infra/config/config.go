package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kawabatas/prompt-deploy/internal/infra/locking"
)

// AppConfig は環境変数（と .env）を読み取りツール全体に渡す設定です。
type AppConfig struct {
	LogProvider string // gcp | cli
	LogLevel    string // -4 | 0 | 4 | 8 or debug/info/warn/error

	StorageProvider string // gcs | local
	Bucket          string // GCS バケット名
	LocalStoreDir   string // local プロバイダ用ディレクトリ

	StagingDir string // ローカル作業コピーの置き場所

	LockTimeoutMinutes string // ロック失効までの分数（既定 5）

	ValidateCommand string // 検証コマンド。環境名が引数として末尾に渡される

	JournalDB string // デプロイ履歴の SQLite パス。空なら履歴なし

	Editor string // edit コマンドで起動するエディタ
}

// NewFromEnv loads .env from the working directory when present, then reads
// the process environment. Missing .env is not an error.
func NewFromEnv() AppConfig {
	_ = godotenv.Load()

	return AppConfig{
		LogProvider:        os.Getenv("LOG_PROVIDER"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		StorageProvider:    os.Getenv("STORAGE_PROVIDER"),
		Bucket:             os.Getenv("PROMPT_BUCKET"),
		LocalStoreDir:      os.Getenv("LOCAL_STORE_DIR"),
		StagingDir:         os.Getenv("STAGING_DIR"),
		LockTimeoutMinutes: os.Getenv("LOCK_TIMEOUT_MINUTES"),
		ValidateCommand:    os.Getenv("VALIDATE_COMMAND"),
		JournalDB:          os.Getenv("JOURNAL_DB"),
		Editor:             os.Getenv("EDITOR"),
	}
}

// StagingPath returns the staging directory (default ./staging).
func (c AppConfig) StagingPath() string {
	if c.StagingDir == "" {
		return "./staging"
	}
	return c.StagingDir
}

// LocalStorePath returns the local store root (default ./tmp/objects).
func (c AppConfig) LocalStorePath() string {
	if c.LocalStoreDir == "" {
		return "./tmp/objects"
	}
	return c.LocalStoreDir
}

// LockTimeout returns the staleness timeout. It should exceed the worst-case
// validation duration; locks are held across validation runs.
func (c AppConfig) LockTimeout() time.Duration {
	if n, err := strconv.Atoi(c.LockTimeoutMinutes); err == nil && n > 0 {
		return time.Duration(n) * time.Minute
	}
	return locking.DefaultTimeout
}

// EditorCommand returns the editor binary (default vi).
func (c AppConfig) EditorCommand() string {
	if c.Editor == "" {
		return "vi"
	}
	return c.Editor
}
