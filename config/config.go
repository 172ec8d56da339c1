package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	utils "github.com/palette/art-club-go/utils"
)

// Config holds everything the handlers need: env settings plus the live Mongo client.
type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	JWTSecret     string
	ClientOrigin  string
	OffsetMinutes int // fixed local offset for day-boundary queries, default UTC+5:30

	MongoClient *mongo.Client
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Log.Info("no .env file found, using environment")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "palette"),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretjwtkey"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		OffsetMinutes: utils.DefaultOffsetMinutes,
	}

	if v := os.Getenv("LOCAL_OFFSET_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.OffsetMinutes = n
		}
	}

	return cfg
}

// ConnectMongo dials the configured Mongo deployment and verifies it with a ping.
func (cfg *Config) ConnectMongo() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}

	cfg.MongoClient = client
	return nil
}

func (cfg *Config) Disconnect() {
	if cfg.MongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cfg.MongoClient.Disconnect(ctx); err != nil {
		utils.Log.Warn("mongo disconnect failed", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
