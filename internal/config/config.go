package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Mail-Einstellungen für den Versand der Login-Codes
	MailHost   string
	MailPort   int
	MailUser   string
	MailPass   string
	MailSender string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=crm port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		MailHost:    getEnv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:    getEnvInt("MAIL_PORT", 587),
		MailUser:    getEnv("MAIL_USER", ""),
		MailPass:    getEnv("MAIL_PASS", ""),
		MailSender:  getEnv("MAIL_SENDER", ""),
	}
	if cfg.MailSender == "" {
		cfg.MailSender = cfg.MailUser
	}
	if cfg.MailSender == "" {
		cfg.MailSender = "noreply@example.com"
	}

	// Sicherheitskontrollen für den Produktivbetrieb
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET ist nicht gesetzt! Für den Betrieb zwingend erforderlich.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET muss mindestens 32 Zeichen lang sein!")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=crm port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN verwendet den Standardwert, für Produktion eigene Postgres-Verbindung setzen.")
	}
	if cfg.MailUser == "" {
		log.Println("[WARN] MAIL_USER ist nicht gesetzt, Login-Codes werden nur ins Log geschrieben.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
