package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	MidtransServerKey string
	MidtransProdEnv   bool

	ReceiptPrefix string
	FeeCurrency   string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = GetEnv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURI = GetEnv("GOOGLE_REDIRECT_URI")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransProdEnv = GetEnv("MIDTRANS_ENV", "sandbox") == "production"

	ReceiptPrefix = GetEnv("RECEIPT_PREFIX", "SBS")
	FeeCurrency = GetEnv("FEE_CURRENCY", "INR")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if MidtransServerKey == "" {
		log.Println("❌ MIDTRANS_SERVER_KEY is not set, checkout sessions will fail!")
	}
	if GoogleClientID == "" {
		log.Println("❌ GOOGLE_CLIENT_ID is not set, google sign-in will fail!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if raw, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
