// config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

var (
	Port          string
	MongoURI      string
	DatabaseName  string
	JWTKey        []byte
	JWTExpiration time.Duration
	OTPTTL        time.Duration
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	DatabaseName = os.Getenv("MONGO_DB")
	if DatabaseName == "" {
		DatabaseName = "dairy"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		JWTKey = []byte("secret")
	}

	expireStr := os.Getenv("JWT_EXPIRE")
	dur := 24 * time.Hour
	if expireStr != "" {
		if expireStr == "7d" {
			dur = 7 * 24 * time.Hour
		} else {
			var err error
			dur, err = time.ParseDuration(expireStr)
			if err != nil {
				log.Printf("Invalid JWT_EXPIRE: %s, using 24h", expireStr)
				dur = 24 * time.Hour
			}
		}
	}
	JWTExpiration = dur

	OTPTTL = 10 * time.Minute
	if ttlStr := os.Getenv("OTP_TTL_MINUTES"); ttlStr != "" {
		if mins, err := strconv.Atoi(ttlStr); err == nil && mins > 0 {
			OTPTTL = time.Duration(mins) * time.Minute
		} else {
			log.Printf("Invalid OTP_TTL_MINUTES: %s, using 10m", ttlStr)
		}
	}

	SMTPHost = os.Getenv("SMTP_HOST")
	SMTPPort = os.Getenv("SMTP_PORT")
	if SMTPPort == "" {
		SMTPPort = "587"
	}
	SMTPUser = os.Getenv("SMTP_USER")
	SMTPPassword = os.Getenv("SMTP_PASSWORD")
	MailFrom = os.Getenv("MAIL_FROM")
	if MailFrom == "" {
		MailFrom = SMTPUser
	}
}
